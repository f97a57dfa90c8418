package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/config"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen/watch"
)

func newWatchCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <schema.graphql>...",
		Short: "Regenerate whenever the schema or config changes",
		Long: `Generate once, then regenerate every time a schema file or the project
config file is saved. Each run is a full generation; contract violations
and orphans are reported and watching continues. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errUsage
			}
			return runWatch(cmd, env, args)
		},
	}
}

// regenerator returns the watch callback: one full generation. Orphan warnings are
// already printed by the run and are not failures of the watch loop.
func regenerator(cmd *cobra.Command, env Env, args []string) func(context.Context) error {
	return func(ctx context.Context) error {
		err := runGenerate(ctx, cmd, env, args)
		if errors.Is(err, errWarnings) {
			return nil
		}
		return err
	}
}

func runWatch(cmd *cobra.Command, env Env, args []string) error {
	regenerate := regenerator(cmd, env, args)
	report(regenerate(cmd.Context()))

	paths := make([]string, 0, len(args)+1)
	for _, p := range args {
		paths = append(paths, resolve(env.Dir, p))
	}
	if file := config.FindProjectConfig(env.Fs, env.Dir); file != "" {
		paths = append(paths, file)
	}

	w, err := watch.New(paths, watch.DefaultDebounce, logger.Named("watch"))
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Watching %d files, press Ctrl-C to stop", len(paths))
	return w.Run(cmd.Context(), regenerate)
}
