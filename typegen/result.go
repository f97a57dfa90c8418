package typegen

import (
	"github.com/teranos/schemagen/typegen/scaffold"
)

// Category groups the artifacts of one concern. Categories run concurrently.
type Category string

const (
	CategoryTypes      Category = "types"
	CategoryContext    Category = "context"
	CategoryModels     Category = "models"
	CategoryScalars    Category = "scalars"
	CategoryInterfaces Category = "interfaces"
	CategoryResolvers  Category = "resolvers"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryTypes,
	CategoryContext,
	CategoryModels,
	CategoryScalars,
	CategoryInterfaces,
	CategoryResolvers,
}

// FileResult records what happened to one artifact.
type FileResult struct {
	// Path is relative to the output directory
	Path    string
	Class   scaffold.Class
	Outcome scaffold.Outcome
	// Appended lists the definitions added to an additive file
	Appended []string
}

// CategoryResult holds the outcome of one category.
type CategoryResult struct {
	Category Category
	Files    []FileResult
	// Orphans are files in the category directory the run did not produce
	Orphans []string
	OK      bool
}

// Report is the outcome of a generation run, one entry per category in
// Categories order.
type Report struct {
	Categories []CategoryResult
}

// OK reports whether every category finished without warnings.
func (r *Report) OK() bool {
	for _, c := range r.Categories {
		if !c.OK {
			return false
		}
	}
	return true
}

// Files returns every file result in category order.
func (r *Report) Files() []FileResult {
	var files []FileResult
	for _, c := range r.Categories {
		files = append(files, c.Files...)
	}
	return files
}

// Written counts the files the run created, rewrote or appended to.
func (r *Report) Written() int {
	n := 0
	for _, f := range r.Files() {
		if f.Outcome.Wrote() {
			n++
		}
	}
	return n
}

// Orphans returns every orphan as a path relative to the output directory.
func (r *Report) Orphans() []string {
	var orphans []string
	for _, c := range r.Categories {
		for _, name := range c.Orphans {
			orphans = append(orphans, string(c.Category)+"/"+name)
		}
	}
	return orphans
}
