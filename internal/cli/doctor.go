package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/toolchain"
)

func addDoctorCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that the SDK and JDK tools are where the configuration says",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := a.loadConfig(ctx, nil)
			if err != nil {
				return err
			}

			tc := toolchain.New(cfg.SDK.Path, cfg.SDK.TargetVersion)
			jdk := toolchain.JDKTools{
				Javac:     cfg.JDK.Javac,
				Java:      cfg.JDK.Java,
				Jarsigner: cfg.JDK.Jarsigner,
				Keytool:   cfg.JDK.Keytool,
			}
			report, err := toolchain.Doctor(ctx, tc, jdk, a.env.lookPath)
			if err != nil {
				return err
			}
			if err := a.output(cmd).Doctor(report); err != nil {
				return err
			}
			if !report.Healthy {
				return fmt.Errorf("%w: %d check(s) failed", errors.ErrToolchainNotFound, len(report.Missing()))
			}
			return nil
		},
	})
}
