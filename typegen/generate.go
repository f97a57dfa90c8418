// Package typegen generates a TypeScript resolver layer from a GraphQL schema.
//
// A run produces six artifact categories concurrently: the owned type
// definitions, the context and models scaffolds, and per-type scalar,
// interface and resolver scaffolds with their owned index files. Scaffold files
// go through the scaffold controller so hand-written code survives reruns.
package typegen

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen/exports"
	"github.com/teranos/schemagen/typegen/format"
	"github.com/teranos/schemagen/typegen/scaffold"
	"github.com/teranos/schemagen/typegen/typescript"
)

// OrphanPattern matches the file names a scaffold directory may hold.
var OrphanPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.ts$`)

// ScaffoldHeader starts every scaffold file.
const ScaffoldHeader = "// Scaffolded by schemagen. This file is yours to edit."

// OwnedHeader returns the banner of generated files.
func OwnedHeader(regenerate string) string {
	return fmt.Sprintf("/* eslint-disable */\n// Code generated by schemagen. DO NOT EDIT.\n// Regenerate with: %s", regenerate)
}

// Options configures a Generator.
type Options struct {
	// Out is the output directory on the generator's filesystem
	Out string
	// Reserved names the root types and builtin scalars excluded from the index
	Reserved schema.Reserved
	// Regenerate is quoted in the banner of owned files
	Regenerate string
	// Workers bounds the per-type fan-out inside a category
	Workers int
	// OutputScalars and InputScalars map builtin scalars to TypeScript.
	// Nil uses the typescript package defaults.
	OutputScalars map[string]string
	InputScalars  map[string]string
}

// Generator runs generation for one immutable schema.
type Generator struct {
	syn    *typescript.Synthesizer
	ctl    *scaffold.Controller
	opts   Options
	logger *zap.SugaredLogger
}

// New prepares a generator writing to fs. The canonical index is computed here,
// once, and shared read-only by every task.
func New(s *schema.Schema, fs afero.Fs, formatter format.Formatter, opts Options, log *zap.SugaredLogger) *Generator {
	if opts.OutputScalars == nil {
		opts.OutputScalars = typescript.OutputScalars
	}
	if opts.InputScalars == nil {
		opts.InputScalars = typescript.InputScalars
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	log = logger.OrNop(log)

	return &Generator{
		syn: typescript.NewSynthesizer(s, opts.Reserved,
			typescript.NewOutputRenderer(opts.OutputScalars),
			typescript.NewInputRenderer(opts.InputScalars)),
		ctl:    scaffold.NewController(fs, opts.Out, exports.TypeScript{}, formatter, log.Named("scaffold")),
		opts:   opts,
		logger: log,
	}
}

// Run generates every category. The first error cancels the remaining tasks and
// is returned once all of them have stopped. Files already written stay written.
// Schemas whose type names collide with generated names are rejected before any
// file is touched.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	if err := g.syn.CheckNames(); err != nil {
		return nil, err
	}
	report := &Report{Categories: make([]CategoryResult, len(Categories))}

	eg, ctx := errgroup.WithContext(ctx)
	for i, category := range Categories {
		eg.Go(func() error {
			result, err := g.runCategory(ctx, category)
			report.Categories[i] = result
			if err != nil {
				return errors.Wrapf(err, "%s", category)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}

	g.logger.Infow("Generation finished",
		"out", g.opts.Out,
		"types", len(g.syn.Index()),
		"written", report.Written(),
		"ok", report.OK())
	return report, nil
}

func (g *Generator) runCategory(ctx context.Context, category Category) (CategoryResult, error) {
	result := CategoryResult{Category: category, OK: true}

	var (
		artifacts []scaffold.Artifact
		orphanDir string
	)
	switch category {
	case CategoryTypes:
		artifacts = []scaffold.Artifact{g.schemaArtifact()}
	case CategoryContext:
		artifacts = []scaffold.Artifact{g.contextArtifact()}
	case CategoryModels:
		artifacts = []scaffold.Artifact{g.modelsArtifact()}
	case CategoryScalars:
		artifacts, orphanDir = g.scalarArtifacts(), typescript.ScalarsDir
	case CategoryInterfaces:
		artifacts, orphanDir = g.interfaceArtifacts(), typescript.InterfacesDir
	case CategoryResolvers:
		artifacts, orphanDir = g.resolverArtifacts(), typescript.ResolversDir
	default:
		return result, errors.AssertionFailedf("unknown category %q", category)
	}

	files, err := g.process(ctx, artifacts)
	result.Files = files
	if err != nil {
		return result, err
	}

	if orphanDir != "" {
		orphans, err := g.ctl.Orphans(orphanDir, OrphanPattern, scaffoldNames(artifacts, orphanDir))
		if err != nil {
			return result, err
		}
		for _, name := range orphans {
			g.logger.Warnw("Orphan file",
				"file", orphanDir+"/"+name,
				"error", errors.Wrapf(errors.ErrOrphanFile, "%s/%s", orphanDir, name))
		}
		result.Orphans = orphans
		result.OK = len(orphans) == 0
	}
	return result, nil
}

// process decides and applies artifacts in parallel, bounded by Workers. Each task
// writes only its own result slot.
func (g *Generator) process(ctx context.Context, artifacts []scaffold.Artifact) ([]FileResult, error) {
	files := make([]FileResult, len(artifacts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for i, a := range artifacts {
		eg.Go(func() error {
			files[i] = FileResult{Path: a.Path, Class: a.Class}

			decision, err := g.ctl.Decide(a)
			if err != nil {
				return err
			}
			outcome, err := g.ctl.Apply(ctx, a, decision)
			if err != nil {
				return err
			}
			files[i].Outcome = outcome
			if outcome == scaffold.Appended {
				files[i].Appended = decision.Missing
			}
			return nil
		})
	}
	return files, eg.Wait()
}

// scaffoldNames returns the base names of the artifacts that live directly in dir.
func scaffoldNames(artifacts []scaffold.Artifact, dir string) []string {
	var names []string
	for _, a := range artifacts {
		if name, ok := strings.CutPrefix(a.Path, dir+"/"); ok && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	return names
}

func (g *Generator) ownedHeader() string {
	return OwnedHeader(g.opts.Regenerate)
}

func (g *Generator) schemaArtifact() scaffold.Artifact {
	return scaffold.Artifact{
		Path:  typescript.SchemaFile,
		Class: scaffold.Owned,
		Render: func() (string, error) {
			m, err := g.syn.SchemaModule(g.ownedHeader())
			if err != nil {
				return "", err
			}
			return m.Serialize(), nil
		},
	}
}

func (g *Generator) contextArtifact() scaffold.Artifact {
	return scaffold.Artifact{
		Path:     typescript.ContextFile,
		Class:    scaffold.Contract,
		Required: []string{"Context"},
		Render: func() (string, error) {
			return typescript.ContextModule(ScaffoldHeader).Serialize(), nil
		},
	}
}

func (g *Generator) modelsArtifact() scaffold.Artifact {
	var entries []scaffold.Entry
	for _, e := range g.syn.ModelEntries() {
		entries = append(entries, scaffold.Entry{Name: e.Name, Code: e.Code})
	}
	return scaffold.Artifact{
		Path:    typescript.ModelsFile,
		Class:   scaffold.Additive,
		Entries: entries,
		Render: func() (string, error) {
			return typescript.ModelsModule(ScaffoldHeader, g.syn.ModelEntries()).Serialize(), nil
		},
	}
}

func (g *Generator) scalarArtifacts() []scaffold.Artifact {
	var artifacts []scaffold.Artifact
	for _, n := range schema.Filter(g.syn.Index(), schema.KindScalar) {
		name := n.Name
		artifacts = append(artifacts, scaffold.Artifact{
			Path:     typescript.ScalarFile(name),
			Class:    scaffold.Contract,
			Required: typescript.ScalarExports(name),
			Render: func() (string, error) {
				return typescript.ScalarModule(ScaffoldHeader, name).Serialize(), nil
			},
		})
	}
	return append(artifacts, scaffold.Artifact{
		Path:  typescript.ScalarsIndexFile,
		Class: scaffold.Owned,
		Render: func() (string, error) {
			return g.syn.ScalarsIndexModule(g.ownedHeader()).Serialize(), nil
		},
	})
}

func (g *Generator) interfaceArtifacts() []scaffold.Artifact {
	var artifacts []scaffold.Artifact
	for _, n := range g.syn.AbstractTypes() {
		name := n.Name
		artifacts = append(artifacts, scaffold.Artifact{
			Path:     typescript.InterfaceFile(name),
			Class:    scaffold.Contract,
			Required: typescript.InterfaceExports(),
			Render: func() (string, error) {
				return typescript.InterfaceModule(ScaffoldHeader, name).Serialize(), nil
			},
		})
	}
	return append(artifacts, scaffold.Artifact{
		Path:  typescript.DispatchIndexFile,
		Class: scaffold.Owned,
		Render: func() (string, error) {
			return g.syn.DispatchIndexModule(g.ownedHeader()).Serialize(), nil
		},
	})
}

func (g *Generator) resolverArtifacts() []scaffold.Artifact {
	var artifacts []scaffold.Artifact
	for _, n := range g.syn.ResolverTypes() {
		t := n
		artifacts = append(artifacts, scaffold.Artifact{
			Path:     typescript.ResolverFile(t.Name),
			Class:    scaffold.Contract,
			Required: typescript.ResolverExports(t.Name),
			Render: func() (string, error) {
				m, err := g.syn.ResolverModule(ScaffoldHeader, t)
				if err != nil {
					return "", err
				}
				return m.Serialize(), nil
			},
		})
	}
	return append(artifacts, scaffold.Artifact{
		Path:  typescript.ResolversIndexFile,
		Class: scaffold.Owned,
		Render: func() (string, error) {
			return g.syn.ResolversIndexModule(g.ownedHeader()).Serialize(), nil
		},
	})
}
