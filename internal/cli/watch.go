package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/signal"
	"github.com/android-clojure/droid/internal/watch"
)

func addWatchCommand(root *cobra.Command, a *app) {
	debounce := &durationFlag{}
	cmd := &cobra.Command{
		Use:   "watch [task]",
		Short: "Rerun a task whenever sources, resources or the manifest change",
		Long: `Run the task once, then again after every batch of changes to the
source roots, the resource and asset dirs or the manifest. Runs never
overlap. Stop with Ctrl+C.

The task defaults to build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := pipeline.TaskBuild
			if len(args) == 1 {
				task = args[0]
			}
			if _, err := pipeline.StagesFor(task); err != nil {
				return err
			}

			ctx := commandContext(cmd)
			cfg, err := a.loadConfig(ctx, nil)
			if err != nil {
				return err
			}

			h := signal.NewHandler(ctx)
			defer h.Stop()

			out := a.output(cmd)
			runner := a.runner(cmd)
			paths := append(append([]string{}, cfg.Sources.Paths...), cfg.Sources.JavaPaths...)
			paths = append(paths, cfg.Paths.Resources, cfg.Paths.Assets, cfg.Paths.Manifest)

			opts := []watch.Option{watch.WithIgnore(cfg.Output.TargetDir)}
			if debounce.set {
				opts = append(opts, watch.WithDebounce(debounce.d))
			}
			w := watch.New(paths, func(ctx context.Context) error {
				_, err := runPipeline(ctx, cfg, out, runner, task)
				if err != nil {
					out.Error(err)
				}
				return err
			}, opts...)
			return w.Run(h.Context())
		},
	}
	cmd.Flags().Var(debounce, "debounce", "quiet period before a rerun (e.g. 500ms)")
	root.AddCommand(cmd)
}
