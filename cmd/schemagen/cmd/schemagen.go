// Package cmd implements the schemagen command line.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/teranos/schemagen/config"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typegen/format"
	"github.com/teranos/schemagen/version"
)

var (
	// errUsage is returned after usage has been printed
	errUsage = errors.New("schema path required")

	// errWarnings marks a run that finished with orphan warnings
	errWarnings = errors.New("generation finished with warnings")

	// errOutOfDate marks a failed check
	errOutOfDate = errors.New("generated files are out of date")
)

// Env is what a command runs against.
type Env struct {
	Fs afero.Fs
	// Dir is the working directory; relative paths resolve against it
	Dir string
}

// NewRootCmd builds the schemagen command tree on env.
func NewRootCmd(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "schemagen <schema.graphql>...",
		Short: "Generate a typed TypeScript resolver layer from a GraphQL schema",
		Long: `Generate a typed TypeScript resolver layer from a GraphQL schema.

schemagen writes three kinds of files under the output directory:
  - Owned files in __generated__/ are rewritten on every run. Do not edit them.
  - Contract scaffolds (context.ts, scalars/, interfaces/, resolvers/) are
    created once. Later runs only verify they still export what generated
    code imports from them.
  - models.ts is created once and afterwards only extended with the models
    of new object types.

Files in scalars/, interfaces/ and resolvers/ that no schema type backs are
reported as orphans and make the run exit 1.

Configuration is read from the nearest schemagen.toml (or .yaml) and from
SCHEMAGEN_* environment variables; flags take precedence.

Examples:
  schemagen schema.graphql                 # Generate into src/graphql
  schemagen schema.graphql --out web/gql   # Custom output directory
  schemagen check schema.graphql           # Exit 1 if files are out of date`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")
			if err := logger.Initialize(verbosity, jsonLogs); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errUsage
			}
			return runGenerate(cmd.Context(), cmd, env, args)
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	root.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	root.PersistentFlags().StringP("out", "o", "", "Output directory (default "+config.DefaultOut+")")
	root.PersistentFlags().String("formatter", "", "Formatter command reading stdin, e.g. \"npx prettier --stdin-filepath {file}\"")
	root.PersistentFlags().Int("workers", 0, "Parallel file tasks per category (default GOMAXPROCS)")

	root.AddCommand(newCheckCmd(env))
	root.AddCommand(newWatchCmd(env))
	root.AddCommand(newConfigCmd(env))
	root.AddCommand(newVersionCmd())
	return root
}

func newCheckCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema.graphql>...",
		Short: "Check if generated files are up to date",
		Long: `Check if generated files match the schema.

Generation runs against a copy-on-write layer, so nothing is written. Owned
files are compared ignoring the "Regenerate with" banner line.

Exit codes:
  0 - Files are up to date
  1 - Files are out of date, or an error occurred`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errUsage
			}
			return runCheck(cmd, env, args)
		},
	}
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show schemagen version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to format version info")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\nGo: %s\n", info.Platform, info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	return cmd
}

func newConfigCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration schemagen would run with, after defaults, the
project file, SCHEMAGEN_* environment variables and flags are applied.

The TOML output can be saved as schemagen.toml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, env)
			if err != nil {
				return err
			}
			formatName, _ := cmd.Flags().GetString("format")
			data, err := config.Marshal(cfg, formatName)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String("format", "toml", "Output format: "+strings.Join(config.Formats, ", "))
	return cmd
}

// loadConfig reads configuration for env with changed flags taking precedence.
func loadConfig(cmd *cobra.Command, env Env) (*config.Config, error) {
	v, err := config.New(env.Fs, env.Dir)
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"out", "formatter", "workers"} {
		if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag --%s", key)
			}
		}
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debugw("Loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// setup loads configuration, schema and formatter shared by generate, check and watch.
func setup(cmd *cobra.Command, env Env, args []string) (*schema.Schema, format.Formatter, typegen.Options, error) {
	cfg, err := loadConfig(cmd, env)
	if err != nil {
		return nil, nil, typegen.Options{}, err
	}

	s, err := loadSchema(env, args)
	if err != nil {
		return nil, nil, typegen.Options{}, err
	}

	formatter, err := format.New(cfg.Formatter, logger.Named("format"))
	if err != nil {
		return nil, nil, typegen.Options{}, err
	}

	opts := typegen.Options{
		Out: resolve(env.Dir, cfg.Out),
		Reserved: schema.Reserved{
			RootTypes: cfg.RootTypes,
			Scalars:   schema.BuiltinScalars,
		},
		Regenerate: cfg.Regenerate(strings.Join(args, " ")),
		Workers:    cfg.WorkerLimit(),
	}
	return s, formatter, opts, nil
}

func loadSchema(env Env, paths []string) (*schema.Schema, error) {
	sources := make([]*ast.Source, 0, len(paths))
	for _, p := range paths {
		content, err := afero.ReadFile(env.Fs, resolve(env.Dir, p))
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "failed to read schema %s", p),
				"pass the path of a GraphQL SDL file")
		}
		sources = append(sources, &ast.Source{Name: p, Input: string(content)})
	}
	return schema.Load(sources...)
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func runGenerate(ctx context.Context, cmd *cobra.Command, env Env, args []string) error {
	s, formatter, opts, err := setup(cmd, env, args)
	if err != nil {
		return err
	}

	report, err := typegen.New(s, env.Fs, formatter, opts, logger.Named("typegen")).Run(ctx)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return err
	}

	if !report.OK() {
		for _, orphan := range report.Orphans() {
			pterm.Warning.Printfln("Orphan file: %s (no schema type backs it)", orphan)
		}
		return errWarnings
	}
	pterm.Success.Printfln("Generated %s (%d files written)", opts.Out, report.Written())
	return nil
}

func runCheck(cmd *cobra.Command, env Env, args []string) error {
	s, formatter, opts, err := setup(cmd, env, args)
	if err != nil {
		return err
	}

	pterm.Info.Println("Checking generated files...")
	result, err := typegen.Check(cmd.Context(), s, env.Fs, formatter, opts, logger.Named("check"))
	if err != nil {
		return err
	}

	for _, orphan := range result.Orphans {
		pterm.Warning.Printfln("Orphan file: %s", orphan)
	}
	if result.UpToDate {
		pterm.Success.Println("Generated files are up to date")
		if len(result.Orphans) > 0 {
			return errWarnings
		}
		return nil
	}

	if len(result.Stale) > 0 {
		pterm.Warning.Println("Generated files differ:")
		for _, file := range result.Stale {
			pterm.Println("  - " + file)
		}
	}
	if len(result.Pending) > 0 {
		pterm.Warning.Println("Scaffolds would be created or extended:")
		for _, file := range result.Pending {
			pterm.Println("  - " + file)
		}
	}
	return errors.WithHintf(errOutOfDate, "run 'schemagen %s' to update", strings.Join(args, " "))
}

func printReport(report *typegen.Report) {
	data := pterm.TableData{{"Category", "Files", "Written", "Orphans"}}
	for _, c := range report.Categories {
		written := 0
		for _, f := range c.Files {
			if f.Outcome.Wrote() {
				written++
			}
		}
		data = append(data, []string{
			string(c.Category),
			strconv.Itoa(len(c.Files)),
			strconv.Itoa(written),
			strconv.Itoa(len(c.Orphans)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Execute runs schemagen on the OS filesystem and returns the exit status.
func Execute() int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = NewRootCmd(Env{Fs: afero.NewOsFs(), Dir: dir}).ExecuteContext(ctx)
	report(err)
	return ExitCode(err)
}

// report prints err unless it only marks warnings already shown. Errors from the
// generation taxonomy abort a run and are reported as such; an out-of-date check
// is a warning.
func report(err error) {
	if err == nil || errors.Is(err, errWarnings) || errors.Is(err, errUsage) {
		return
	}
	switch {
	case errors.IsFatal(err):
		pterm.Error.Println("Generation aborted: " + err.Error())
	case errors.Is(err, errOutOfDate):
		pterm.Warning.Println(err.Error())
	default:
		pterm.Error.Println(err.Error())
	}
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
}
