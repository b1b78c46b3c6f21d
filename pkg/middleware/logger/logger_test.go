package logger

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	SetAccessLogger(zap.New(core))
	return logs
}

func router(ca *auth.Middleware, seen *string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUser(req.Context(), auth.User{Username: "ann", Role: auth.Role{Name: "editor"}})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Use((&Middleware{}).Middleware(ca))
	r.Post("/{controller}/{action}", func(w http.ResponseWriter, req *http.Request) {
		_ = req.ParseForm()
		*seen = req.PostForm.Get("title")
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func post(path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(url.Values{"title": {"hi"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestMiddleware_LogsRouteAndUser(t *testing.T) {
	logs := observed(t)
	var seen string

	router(auth.New(auth.Config{}), &seen).ServeHTTP(httptest.NewRecorder(), post("/notes/save"))

	assert.Equal(t, "hi", seen, "body is restored for the handler")
	entries := logs.FilterMessage("access").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "notes", fields["controller"])
	assert.Equal(t, "save", fields["action"])
	assert.Equal(t, "ann", fields["username"])
	assert.Equal(t, true, fields["isAuthenticated"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.NotContains(t, fields, "requestData")
}

func TestMiddleware_BodyOnlyOnAllowlistedPaths(t *testing.T) {
	logs := observed(t)
	AddBodyLogPaths("/audit/")
	var seen string
	h := router(nil, &seen)

	h.ServeHTTP(httptest.NewRecorder(), post("/audit/save"))
	h.ServeHTTP(httptest.NewRecorder(), post("/notes/save"))

	entries := logs.FilterMessage("access").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "title=hi", entries[0].ContextMap()["requestData"])
	assert.NotContains(t, entries[1].ContextMap(), "requestData")
	assert.Equal(t, "", entries[0].ContextMap()["username"], "no auth middleware, no user")
}
