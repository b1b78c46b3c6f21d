package core

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/trifle/pkg/delegates/builtin"
	"github.com/joeydtaylor/trifle/pkg/loader"
	manifest "github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
	"github.com/joeydtaylor/trifle/pkg/middleware/metrics"
	"github.com/joeydtaylor/trifle/pkg/store"
	httpx "github.com/joeydtaylor/trifle/pkg/transport/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hmacKey = []byte("router-test-key")

func put(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	scripts := t.TempDir()
	put(t, filepath.Join(scripts, "index", "index.tmpl"), "{{len .records}} records")

	lib := t.TempDir()
	put(t, filepath.Join(lib, "views", "scripts", "map", "map.tmpl"), "<p>{{.message}}</p>")

	cfg := manifest.Config{
		View:          manifest.View{ScriptDirs: []string{scripts}},
		DelegatePaths: []loader.Path{{Prefix: builtin.Prefix, Dir: lib}},
		Controllers: []manifest.Controller{
			{Name: "index", Delegates: []manifest.DelegateRef{{Name: "Crud"}, {Name: "Map"}}},
			{
				Name:      "notes",
				Codec:     "json-pretty",
				Guard:     manifest.Guard{RequireAuth: true},
				Delegates: []manifest.DelegateRef{{Name: "Crud", Except: []string{"destroy"}}},
			},
			{
				Name:      "admin",
				Guard:     manifest.Guard{Roles: []string{"admin"}},
				Delegates: []manifest.DelegateRef{{Name: "Map"}},
			},
			{Name: "broken", Delegates: []manifest.DelegateRef{{Name: "Crud"}, {Name: "Crud"}}},
		},
	}
	require.NoError(t, cfg.Validate())

	cat := loader.NewCatalog()
	require.NoError(t, builtin.Register(cat))
	st := store.NewMemory()

	h := BuildRouter(cfg, BuildDeps{
		Auth:    auth.New(auth.Config{Key: hmacKey}),
		Router:  httpx.NewChi(),
		Store:   st,
		Catalog: cat,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, st
}

func token(t *testing.T, uid, role string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": uid, "role": role,
		"iat": time.Now().Unix(), "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(hmacKey)
	require.NoError(t, err)
	return raw
}

func do(t *testing.T, method, u string, form url.Values, bearer string) (*http.Response, string) {
	t.Helper()
	body := strings.NewReader("")
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, u, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

func TestRouter_DelegateFallbackTemplate(t *testing.T) {
	srv, _ := testServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/index/map", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<p>index page</p>", body)
}

func TestRouter_HostTemplateForDelegatedAction(t *testing.T) {
	srv, _ := testServer(t)

	for _, path := range []string{"/", "/index", "/index/index"} {
		res, body := do(t, http.MethodGet, srv.URL+path, nil, "")
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Equal(t, "0 records", body, path)
	}
}

func TestRouter_JSONWhenNothingRendered(t *testing.T) {
	srv, st := testServer(t)
	tok := token(t, "ann", "editor")

	res, body := do(t, http.MethodPost, srv.URL+"/notes/save/n1", url.Values{"title": {"hello"}}, tok)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	rec, err := st.Get(context.Background(), "notes", "n1")
	require.NoError(t, err)
	assert.Equal(t, "hello", rec.Fields["title"])

	res, body = do(t, http.MethodGet, srv.URL+"/notes/show/n1", nil, tok)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var payload struct {
		Record store.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "n1", payload.Record.ID)
	assert.Equal(t, "hello", payload.Record.Fields["title"])
	assert.Contains(t, body, "\n  ", "json-pretty output is indented")
}

func TestRouter_NativeActionWins(t *testing.T) {
	RegisterAction("index", "ping", func(context.Context, ...any) (any, error) { return "pong", nil })
	srv, _ := testServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/index/ping", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `"pong"`, body)
}

func TestRouter_Errors(t *testing.T) {
	srv, _ := testServer(t)
	tok := token(t, "ann", "editor")

	cases := []struct {
		name   string
		method string
		path   string
		bearer string
		status int
	}{
		{"unknown action", http.MethodGet, "/index/delete", "", http.StatusNotFound},
		{"unknown controller", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"missing record", http.MethodGet, "/index/show/missing", "", http.StatusNotFound},
		{"excluded action", http.MethodPost, "/notes/destroy/n1", tok, http.StatusNotFound},
		{"guard without user", http.MethodGet, "/notes", "", http.StatusUnauthorized},
		{"guard with bad token", http.MethodGet, "/notes", "garbage", http.StatusUnauthorized},
		{"role mismatch", http.MethodGet, "/admin/map", tok, http.StatusForbidden},
		{"duplicate delegates", http.MethodGet, "/broken/index", "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _ := do(t, tc.method, srv.URL+tc.path, nil, tc.bearer)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}

	res, _ := do(t, http.MethodGet, srv.URL+"/admin/map", nil, token(t, "root", "admin"))
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs(""))
	assert.Equal(t, []any{"a", "b"}, splitArgs("/a//b/"))
}

// dispatchSeries lists the action labels recorded for controller.
func dispatchSeries(t *testing.T, controller string) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "trifle_dispatch_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["controller"] == controller {
				out[labels["action"]] = true
			}
		}
	}
	return out
}

func TestRouter_DispatchMetricLabelsAreBounded(t *testing.T) {
	srv, _ := testServer(t)

	for i := 0; i < 20; i++ {
		res, _ := do(t, http.MethodGet, srv.URL+"/index/junk"+strconv.Itoa(i), nil, "")
		require.Equal(t, http.StatusNotFound, res.StatusCode)
		res, _ = do(t, http.MethodGet, srv.URL+"/broken/junk"+strconv.Itoa(i), nil, "")
		require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	}
	res, _ := do(t, http.MethodGet, srv.URL+"/index/map", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	for _, c := range []string{"index", "broken"} {
		for action := range dispatchSeries(t, c) {
			assert.NotContains(t, action, "junk", c)
		}
	}
	assert.True(t, dispatchSeries(t, "index")[metrics.UnknownAction])
	assert.True(t, dispatchSeries(t, "index")["map"])
}

func TestRouter_MalformedFormIsBadRequest(t *testing.T) {
	srv, st := testServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/index/save/n1", strings.NewReader("title=%zz"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	_, err = st.Get(context.Background(), "index", "n1")
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing saved")
}

func TestRouter_ServerErrorsHideDetails(t *testing.T) {
	srv, _ := testServer(t)

	res, body := do(t, http.MethodGet, srv.URL+"/broken/index", nil, "")
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), strings.TrimSpace(body))
	assert.NotContains(t, body, "duplicate")
}
