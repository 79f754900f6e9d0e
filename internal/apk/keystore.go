package apk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/config"
	"github.com/android-clojure/droid/internal/constants"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
)

// CreateDebugKeystore generates the debug keystore at cfg.Signing.Keystore
// with the well-known debug identity. An existing file is never overwritten.
func CreateDebugKeystore(ctx context.Context, cfg *config.Config, runner process.Runner) error {
	ks := cfg.Signing.Keystore
	if ks == "" {
		return errors.Wrap(errors.ErrEmptyValue, "signing.keystore")
	}
	if _, err := os.Stat(ks); err == nil {
		return fmt.Errorf("%w: %s", errors.ErrKeystoreExists, ks)
	}
	if err := os.MkdirAll(filepath.Dir(ks), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(ks))
	}

	zerolog.Ctx(ctx).Info().Str("keystore", ks).Msg("creating debug keystore")
	_, err := runner.Run(ctx, process.Invocation{
		Tool: constants.ToolKeytool,
		Path: cfg.JDK.Keytool,
		Args: KeystoreArgs(ks),
		Dir:  cfg.ProjectDir,
	})
	return err
}

// KeystoreArgs builds the keytool argument vector for the debug identity.
func KeystoreArgs(keystore string) []string {
	return []string{
		"-genkey", "-v",
		"-keystore", keystore,
		"-alias", constants.DebugKeyAlias,
		"-storepass", constants.DebugStorePassword,
		"-keypass", constants.DebugKeyPassword,
		"-dname", constants.DebugKeyDName,
		"-keyalg", constants.DebugKeyAlg,
		"-keysize", constants.DebugKeySize,
		"-validity", constants.DebugKeyValidity,
	}
}
