package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/signal"
	"github.com/android-clojure/droid/internal/tui"
)

// taskFlags are the per-task overrides.
type taskFlags struct {
	aotMode string
	serial  string
	target  string
}

func (f *taskFlags) apply(c *config.Config) {
	c.AOT.Mode = config.AOTMode(f.aotMode)
	c.Device.Serial = f.serial
	c.SDK.TargetVersion = f.target
}

func taskUses(task string, stage pipeline.StageName) bool {
	stages, err := pipeline.StagesFor(task)
	if err != nil {
		return false
	}
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func addTaskCommands(root *cobra.Command, a *app) {
	for _, task := range pipeline.Tasks() {
		root.AddCommand(newTaskCmd(a, task))
	}
}

func newTaskCmd(a *app, task string) *cobra.Command {
	tf := &taskFlags{}
	cmd := &cobra.Command{
		Use:   task,
		Short: pipeline.Describe(task),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTask(cmd, task, tf)
		},
	}
	cmd.Flags().StringVar(&tf.target, "target", "", "platform version to build against (overrides sdk.target_version)")
	if taskUses(task, pipeline.StageCompile) {
		cmd.Flags().StringVar(&tf.aotMode, "aot", "", "AOT mode (none|all|all-with-unused)")
	}
	if taskUses(task, pipeline.StageInstall) {
		cmd.Flags().StringVarP(&tf.serial, "serial", "s", "", "device serial (default: the single USB device)")
	}
	return cmd
}

// runTask loads the config, runs task under signal handling and prints the
// report.
func (a *app) runTask(cmd *cobra.Command, task string, tf *taskFlags) error {
	ctx := commandContext(cmd)

	cfg, err := a.loadConfig(ctx, tf.apply)
	if err != nil {
		return err
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()

	out := a.output(cmd)
	_, err = runPipeline(h.Context(), cfg, out, a.runner(cmd), task)
	return err
}

// runPipeline wires the stages for cfg and runs task.
func runPipeline(ctx context.Context, cfg *config.Config, out tui.Output, runner process.Runner, task string) (*pipeline.Report, error) {
	stages := pipeline.Wire(cfg, runner, pipeline.Components{})
	p := pipeline.New(stages, pipeline.WithObserver(out.Observer()))

	report, err := p.Run(ctx, task)
	if report != nil {
		if rerr := out.Report(report); rerr != nil && err == nil {
			err = rerr
		}
	}
	return report, err
}
