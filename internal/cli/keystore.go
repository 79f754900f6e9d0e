package cli

import (
	"github.com/spf13/cobra"

	"github.com/android-clojure/droid/internal/apk"
)

func addKeystoreCommand(root *cobra.Command, a *app) {
	root.AddCommand(&cobra.Command{
		Use:   "create-debug-keystore",
		Short: "Generate the debug signing keystore at signing.keystore",
		Long: `Generate the debug keystore used by sign-apk, with the standard
Android debug identity. An existing keystore is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := a.loadConfig(ctx, nil)
			if err != nil {
				return err
			}
			if err := apk.CreateDebugKeystore(ctx, cfg, a.runner(cmd)); err != nil {
				return err
			}
			a.output(cmd).Success("created debug keystore " + cfg.Signing.Keystore)
			return nil
		},
	})
}
