// Package format normalizes generated TypeScript before it is written.
package format

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// Formatter rewrites source text. Implementations must be idempotent:
// formatting formatted output returns it unchanged.
type Formatter interface {
	Format(ctx context.Context, path string, source []byte) ([]byte, error)
}

// Normalizer trims trailing whitespace from every line and ends the text with
// exactly one newline.
type Normalizer struct{}

// Format implements Formatter.
func (Normalizer) Format(_ context.Context, _ string, source []byte) ([]byte, error) {
	return Normalize(source), nil
}

// Normalize is the whitespace pass every formatter output goes through.
func Normalize(source []byte) []byte {
	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if text == "" {
		return nil
	}
	return []byte(text + "\n")
}

// FilePlaceholder in a command line is replaced with the path being formatted.
const FilePlaceholder = "{file}"

// Command pipes source through an external formatter such as
// `prettier --stdin-filepath {file}` and normalizes its output.
type Command struct {
	argv   []string
	logger *zap.SugaredLogger
}

// NewCommand parses line with shell quoting rules.
func NewCommand(line string, log *zap.SugaredLogger) (*Command, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse formatter command %q", line)
	}
	if len(argv) == 0 {
		return nil, errors.Newf("formatter command %q is empty", line)
	}
	return &Command{argv: argv, logger: logger.OrNop(log)}, nil
}

// Argv returns the command with path substituted for FilePlaceholder.
func (c *Command) Argv(path string) []string {
	argv := make([]string, len(c.argv))
	for i, arg := range c.argv {
		argv[i] = strings.ReplaceAll(arg, FilePlaceholder, path)
	}
	return argv
}

// Format implements Formatter.
func (c *Command) Format(ctx context.Context, path string, source []byte) ([]byte, error) {
	argv := c.Argv(path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debugw("Running formatter", "file", path, "command", argv[0])
	if err := cmd.Run(); err != nil {
		return nil, errors.WithDetail(
			errors.Wrapf(err, "formatter %s failed on %s", argv[0], path),
			strings.TrimSpace(stderr.String()),
		)
	}
	return Normalize(stdout.Bytes()), nil
}

// New returns the Command for line, or a Normalizer when line is blank.
func New(line string, log *zap.SugaredLogger) (Formatter, error) {
	if strings.TrimSpace(line) == "" {
		return Normalizer{}, nil
	}
	return NewCommand(line, log)
}
