package serverfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/joeydtaylor/trifle/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestProvideManifest_EnvOverridesDefault(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(p, []byte("[[controller]]\nname = \"index\"\n"), 0o644))

	opts := DefaultOptions()
	opts.DefaultManifest = filepath.Join(t.TempDir(), "missing.toml")
	t.Setenv(opts.ManifestEnv, p)

	cfg, err := provideManifest(opts, zap.NewNop())
	require.NoError(t, err)
	_, ok := cfg.Controller("index")
	assert.True(t, ok)

	t.Setenv(opts.ManifestEnv, "")
	_, err = provideManifest(opts, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideStore_ClosedOnStop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	s, err := provideStore(lc, manifest.Config{Store: store.Config{Driver: "sqlite"}})
	require.NoError(t, err)

	lc.RequireStart()
	require.NoError(t, s.Put(context.Background(), "c", store.Record{ID: "1"}))
	lc.RequireStop()

	_, err = s.List(context.Background(), "c")
	assert.Error(t, err, "store is closed once the app stops")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TRIFLE_TEST_ENV", "")
	assert.Equal(t, "def", envOr("TRIFLE_TEST_ENV", "def"))
	t.Setenv("TRIFLE_TEST_ENV", "set")
	assert.Equal(t, "set", envOr("TRIFLE_TEST_ENV", "def"))
	assert.False(t, fileExists(""))
}
