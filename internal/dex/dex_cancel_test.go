//go:build unix

package dex_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/android-clojure/droid/internal/classpath"
	"github.com/android-clojure/droid/internal/dex"
	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/process"
	"github.com/android-clojure/droid/internal/testutil"
	"github.com/android-clojure/droid/internal/toolchain"
)

func TestCreateDex_CancellationKillsTranslator(t *testing.T) {
	cfg := testutil.ProjectConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Output.CompiledClasses, 0o750))

	// $3 is the output path: --dex --output <out> ...
	testutil.WriteScript(t, filepath.Join(cfg.SDK.Path, "platform-tools"), "dx", `echo partial > "$3"; exec sleep 30`)

	stage, _ := newStage(cfg, process.NewExecRunner(process.WithWaitDelay(time.Second)))

	ctx, cancel := context.WithCancel(testContext())
	defer cancel()
	go func() {
		// Cancel once the translator has started writing.
		for range 200 {
			if _, err := os.Stat(cfg.Output.Dex); err == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
	}()

	start := time.Now()
	err := stage.CreateDex(ctx)
	require.ErrorIs(t, err, errors.ErrOperationCanceled)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.NoFileExists(t, cfg.Output.Dex, "partial output must be removed")
}

func TestCreateDex_CanceledBeforeStartKeepsPreviousOutput(t *testing.T) {
	cfg := testutil.ProjectConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Output.CompiledClasses, 0o750))
	testutil.WriteFile(t, cfg.Output.Dex, "previous run")

	ctx, cancel := context.WithCancel(testContext())
	defer cancel()
	resolver := classpath.ResolverFunc(func(context.Context, []string) ([]string, error) {
		cancel()
		return nil, nil
	})

	tc := toolchain.New(cfg.SDK.Path, cfg.SDK.TargetVersion)
	stage := dex.New(cfg, tc, resolver, process.NewExecRunner())

	err := stage.CreateDex(ctx)
	require.ErrorIs(t, err, errors.ErrOperationCanceled)

	data, rerr := os.ReadFile(cfg.Output.Dex)
	require.NoError(t, rerr, "dx never ran, so the earlier dex stays")
	assert.Equal(t, "previous run", string(data))
}
