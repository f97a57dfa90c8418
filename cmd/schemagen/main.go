package main

import (
	"os"

	"github.com/teranos/schemagen/cmd/schemagen/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
