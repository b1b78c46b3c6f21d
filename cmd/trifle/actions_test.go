package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeydtaylor/trifle/pkg/delegates/builtin"
	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/joeydtaylor/trifle/pkg/manager"
	"github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, controllers ...manifest.Controller) manifest.Config {
	t.Helper()
	cfg := manifest.Config{
		DelegatePaths: []loader.Path{{Prefix: builtin.Prefix, Dir: t.TempDir()}},
		Controllers:   controllers,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func testCatalog(t *testing.T) *loader.Catalog {
	t.Helper()
	cat := loader.NewCatalog()
	require.NoError(t, builtin.Register(cat))
	return cat
}

func TestPrintActions(t *testing.T) {
	cfg := testConfig(t,
		manifest.Controller{Name: "index", Delegates: []manifest.DelegateRef{{Name: "Crud", Only: []string{"index"}}, {Name: "Map"}}},
		manifest.Controller{Name: "notes", Delegates: []manifest.DelegateRef{{Name: "Map"}}},
	)

	var out bytes.Buffer
	require.NoError(t, printActions(&out, cfg, testCatalog(t), nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"CONTROLLER", "ACTION", "DELEGATE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"index", "index", "*builtin.Crud"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"index", "map", "*builtin.Map"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"notes", "map", "*builtin.Map"}, strings.Fields(lines[3]))
}

func TestPrintActions_FilterByController(t *testing.T) {
	cfg := testConfig(t,
		manifest.Controller{Name: "index", Delegates: []manifest.DelegateRef{{Name: "Crud"}}},
		manifest.Controller{Name: "notes", Delegates: []manifest.DelegateRef{{Name: "Map"}}},
	)
	var out bytes.Buffer
	require.NoError(t, printActions(&out, cfg, testCatalog(t), []string{"notes"}))
	assert.NotContains(t, out.String(), "Crud")
	assert.Contains(t, out.String(), "*builtin.Map")
}

func TestPrintActions_ReportsCollisions(t *testing.T) {
	cfg := testConfig(t,
		manifest.Controller{Name: "index", Delegates: []manifest.DelegateRef{{Name: "Map"}, {Name: "Map"}}},
	)
	err := printActions(&bytes.Buffer{}, cfg, testCatalog(t), nil)
	assert.ErrorIs(t, err, manager.ErrDuplicateAction)
}

func TestPrintActions_UnknownDelegate(t *testing.T) {
	cfg := testConfig(t,
		manifest.Controller{Name: "index", Delegates: []manifest.DelegateRef{{Name: "Ghost"}}},
	)
	err := printActions(&bytes.Buffer{}, cfg, testCatalog(t), nil)
	assert.ErrorIs(t, err, loader.ErrDelegateNotFound)
}

func TestResolveManifest(t *testing.T) {
	t.Setenv("TRIFLE_MANIFEST", "")
	manifestPath = ""
	assert.Equal(t, "manifest.toml", resolveManifest())

	t.Setenv("TRIFLE_MANIFEST", "/etc/trifle.yaml")
	assert.Equal(t, "/etc/trifle.yaml", resolveManifest())

	manifestPath = "flag.toml"
	t.Cleanup(func() { manifestPath = "" })
	assert.Equal(t, "flag.toml", resolveManifest())
}
