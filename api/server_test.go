package api

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	// Local Packages
	errors "paybot-console/errors"
	metrics "paybot-console/metrics"
	feed "paybot-console/services/feed"
	poller "paybot-console/services/poller"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFeed struct {
	refreshes int
	err       error
}

func (s *stubFeed) Refresh(context.Context) error {
	s.refreshes++
	return s.err
}

func (s *stubFeed) View() feed.View {
	return feed.View{State: feed.StateReady}
}

type stubWallets struct {
	enabled   bool
	refreshes int
	err       error
}

func (s *stubWallets) Refresh(context.Context) error {
	s.refreshes++
	return s.err
}

func (s *stubWallets) SetEnabled(enabled bool) { s.enabled = enabled }

func (s *stubWallets) View() poller.View {
	return poller.View{Enabled: s.enabled, Total: 4}
}

func newServer(f *stubFeed, w *stubWallets) *httptest.Server {
	a := New(f, w, metrics.New("test").Registry, zap.NewNop())
	return httptest.NewServer(a.Router())
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestRoutes(t *testing.T) {
	f, w := &stubFeed{}, &stubWallets{}
	srv := newServer(f, w)
	defer srv.Close()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/transactions", http.StatusOK},
		{http.MethodPost, "/transactions/refresh", http.StatusOK},
		{http.MethodGet, "/wallet-transfers", http.StatusOK},
		{http.MethodPost, "/wallet-transfers/refresh", http.StatusOK},
		{http.MethodPut, "/wallet-transfers/auto-refresh?enabled=true", http.StatusOK},
		{http.MethodPut, "/wallet-transfers/auto-refresh?enabled=maybe", http.StatusBadRequest},
		{http.MethodDelete, "/transactions", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		res := do(t, tt.method, srv.URL+tt.path)
		assert.Equal(t, tt.status, res.StatusCode, "%s %s", tt.method, tt.path)
	}

	assert.Equal(t, 1, f.refreshes)
	assert.Equal(t, 1, w.refreshes)
	assert.True(t, w.enabled)
}

func TestWalletViewIsEncoded(t *testing.T) {
	srv := newServer(&stubFeed{}, &stubWallets{enabled: true})
	defer srv.Close()

	res := do(t, http.MethodGet, srv.URL+"/wallet-transfers")
	var view poller.View
	require.NoError(t, json.NewDecoder(res.Body).Decode(&view))
	assert.True(t, view.Enabled)
	assert.Equal(t, 4, view.Total)
}

func TestRefreshErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"remote", errors.RemoteErr(500, "down", nil), http.StatusBadGateway},
		{"unauthorized", errors.E(errors.Unauthorized, "session expired", nil), http.StatusUnauthorized},
		{"other", errors.E(errors.Other, "boom", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(&stubFeed{err: tt.err}, &stubWallets{})
			defer srv.Close()

			res := do(t, http.MethodPost, srv.URL+"/transactions/refresh")
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}
