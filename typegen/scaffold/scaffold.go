// Package scaffold decides how each generated file may be written so that
// regeneration never destroys hand-written code.
//
// Every artifact has a class. Owned files belong to the generator and are
// rewritten. Contract files are created once and afterwards only checked for the
// exports generated code depends on. Additive files are created once and afterwards
// only extended with the definitions they are missing.
package scaffold

import (
	"context"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen/exports"
	"github.com/teranos/schemagen/typegen/format"
)

// Class is the overwrite policy of an artifact.
type Class int

const (
	Owned Class = iota
	Contract
	Additive
)

func (c Class) String() string {
	switch c {
	case Owned:
		return "owned"
	case Contract:
		return "contract"
	case Additive:
		return "additive"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Action is what Apply does with an artifact.
type Action int

const (
	ActionWrite Action = iota
	ActionSkip
	ActionAppend
)

func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionSkip:
		return "skip"
	case ActionAppend:
		return "append"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Entry is one named top-level definition of an additive artifact.
type Entry struct {
	Name string
	Code string
}

// Artifact is one file a generation run wants to produce.
type Artifact struct {
	// Path is relative to the controller root, slash separated.
	Path  string
	Class Class

	// Required lists the exports a Contract file must keep.
	Required []string

	// Entries are the definitions an Additive file must contain, in order.
	// Their names double as the expected exports.
	Entries []Entry

	// Render produces the full file content for ActionWrite.
	Render func() (string, error)
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action
	// Missing lists the entry names an append adds, in entry order.
	Missing []string
}

// Outcome reports what Apply did on disk.
type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Rewritten
	Appended
	Skipped
)

func (o Outcome) String() string {
	return [...]string{"unchanged", "created", "rewritten", "appended", "skipped"}[o]
}

// Wrote reports whether the outcome touched the file.
func (o Outcome) Wrote() bool {
	return o == Created || o == Rewritten || o == Appended
}

// ContractViolationError reports a contract file that lost a required export.
type ContractViolationError struct {
	File   string
	Symbol string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s no longer exports %q", e.File, e.Symbol)
}

// Is matches errors.ErrContractViolation.
func (e *ContractViolationError) Is(target error) bool {
	return target == errors.ErrContractViolation
}

// Controller applies overwrite policies to files under one root directory.
// It is safe for concurrent use on distinct paths.
type Controller struct {
	fs        afero.Fs
	root      string
	scanner   exports.Scanner
	formatter format.Formatter
	logger    *zap.SugaredLogger
}

// NewController creates a controller for files under root on fs.
func NewController(fs afero.Fs, root string, scanner exports.Scanner, formatter format.Formatter, log *zap.SugaredLogger) *Controller {
	return &Controller{
		fs:        fs,
		root:      root,
		scanner:   scanner,
		formatter: formatter,
		logger:    logger.OrNop(log),
	}
}

// Root returns the directory artifact paths are relative to.
func (c *Controller) Root() string {
	return c.root
}

func (c *Controller) abs(rel string) string {
	return path.Join(c.root, rel)
}

func (c *Controller) exists(rel string) (bool, error) {
	ok, err := afero.Exists(c.fs, c.abs(rel))
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat %s", rel)
	}
	return ok, nil
}

// Decide is the single pre-write step for an artifact.
func (c *Controller) Decide(a Artifact) (Decision, error) {
	if a.Class == Owned {
		return Decision{Action: ActionWrite}, nil
	}

	ok, err := c.exists(a.Path)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Decision{Action: ActionWrite}, nil
	}

	found, err := c.scanner.Scan(c.fs, c.abs(a.Path))
	if err != nil {
		return Decision{}, err
	}

	switch a.Class {
	case Contract:
		if missing := found.Missing(a.Required); len(missing) > 0 {
			return Decision{}, errors.WithHintf(
				&ContractViolationError{File: a.Path, Symbol: missing[0]},
				"export %s from %s again, or delete the file to have it scaffolded anew",
				strings.Join(missing, ", "), a.Path,
			)
		}
		return Decision{Action: ActionSkip}, nil

	case Additive:
		names := make([]string, 0, len(a.Entries))
		for _, e := range a.Entries {
			names = append(names, e.Name)
		}
		missing := found.Missing(names)
		if len(missing) == 0 {
			return Decision{Action: ActionSkip}, nil
		}
		return Decision{Action: ActionAppend, Missing: missing}, nil
	}
	return Decision{}, errors.AssertionFailedf("unknown artifact class %s", a.Class)
}

// Apply carries out d for a. Owned files whose formatted content equals what is
// on disk are left alone.
func (c *Controller) Apply(ctx context.Context, a Artifact, d Decision) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Unchanged, err
	}

	switch d.Action {
	case ActionSkip:
		c.logger.Debugw("Keeping scaffold", "file", a.Path, "class", a.Class)
		return Skipped, nil

	case ActionAppend:
		return c.append(ctx, a, d.Missing)

	case ActionWrite:
		return c.write(ctx, a)
	}
	return Unchanged, errors.AssertionFailedf("unknown action %s", d.Action)
}

func (c *Controller) write(ctx context.Context, a Artifact) (Outcome, error) {
	content, err := a.Render()
	if err != nil {
		return Unchanged, errors.Wrapf(err, "failed to render %s", a.Path)
	}
	formatted, err := c.formatter.Format(ctx, a.Path, []byte(content))
	if err != nil {
		return Unchanged, err
	}

	target := c.abs(a.Path)
	existing, err := afero.ReadFile(c.fs, target)
	switch {
	case err == nil && string(existing) == string(formatted):
		c.logger.Debugw("Unchanged", "file", a.Path)
		return Unchanged, nil
	case err != nil && !os.IsNotExist(err):
		return Unchanged, errors.Wrapf(err, "failed to read %s", a.Path)
	}

	if err := ctx.Err(); err != nil {
		return Unchanged, err
	}
	if err := c.fs.MkdirAll(path.Dir(target), 0o755); err != nil {
		return Unchanged, errors.Wrapf(err, "failed to create directory for %s", a.Path)
	}
	if err := afero.WriteFile(c.fs, target, formatted, 0o644); err != nil {
		return Unchanged, errors.Wrapf(err, "failed to write %s", a.Path)
	}

	outcome := Created
	if existing != nil {
		outcome = Rewritten
	}
	c.logger.Infow("Wrote file", "file", a.Path, "class", a.Class, "outcome", outcome)
	return outcome, nil
}

func (c *Controller) append(ctx context.Context, a Artifact, missing []string) (Outcome, error) {
	want := make(map[string]bool, len(missing))
	for _, name := range missing {
		want[name] = true
	}
	var blocks []string
	for _, e := range a.Entries {
		if want[e.Name] {
			blocks = append(blocks, strings.TrimRight(e.Code, "\n"))
		}
	}

	formatted, err := c.formatter.Format(ctx, a.Path, []byte(strings.Join(blocks, "\n\n")))
	if err != nil {
		return Unchanged, err
	}

	target := c.abs(a.Path)
	existing, err := afero.ReadFile(c.fs, target)
	if err != nil {
		return Unchanged, errors.Wrapf(err, "failed to read %s", a.Path)
	}

	var buf strings.Builder
	buf.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		buf.WriteString("\n")
	}
	if len(existing) > 0 {
		buf.WriteString("\n")
	}
	buf.Write(formatted)

	if err := ctx.Err(); err != nil {
		return Unchanged, err
	}
	if err := afero.WriteFile(c.fs, target, []byte(buf.String()), 0o644); err != nil {
		return Unchanged, errors.Wrapf(err, "failed to append to %s", a.Path)
	}
	c.logger.Infow("Appended definitions", "file", a.Path, "names", missing)
	return Appended, nil
}

// Orphans lists the files in dir that match pattern but are not in intended.
// A missing directory has no orphans. The result is sorted.
func (c *Controller) Orphans(dir string, pattern *regexp.Regexp, intended []string) ([]string, error) {
	entries, err := afero.ReadDir(c.fs, c.abs(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	keep := make(map[string]bool, len(intended))
	for _, name := range intended {
		keep[name] = true
	}

	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() || !pattern.MatchString(entry.Name()) || keep[entry.Name()] {
			continue
		}
		orphans = append(orphans, entry.Name())
	}
	sort.Strings(orphans)
	return orphans, nil
}
