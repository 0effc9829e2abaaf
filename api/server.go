package api

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	// Local Packages
	errors "paybot-console/errors"
	feed "paybot-console/services/feed"
	poller "paybot-console/services/poller"

	// External Packages
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Feed interface {
	Refresh(ctx context.Context) error
	View() feed.View
}

type Wallets interface {
	Refresh(ctx context.Context) error
	SetEnabled(enabled bool)
	View() poller.View
}

// API exposes the watch-mode views over HTTP.
type API struct {
	feed     Feed
	wallets  Wallets
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func New(f Feed, w Wallets, gatherer prometheus.Gatherer, logger *zap.Logger) *API {
	return &API{feed: f, wallets: w, gatherer: gatherer, logger: logger}
}

// Router builds the chi router with every route registered.
func (a *API) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	a.RegisterRoutes(r)
	return r
}

func (a *API) RegisterRoutes(r *chi.Mux) {
	r.Get("/healthz", a.Health)
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	r.Get("/transactions", a.GetTransactions)
	r.Post("/transactions/refresh", a.RefreshTransactions)

	r.Get("/wallet-transfers", a.GetWalletTransfers)
	r.Post("/wallet-transfers/refresh", a.RefreshWalletTransfers)
	r.Put("/wallet-transfers/auto-refresh", a.SetAutoRefresh)
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) GetTransactions(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.feed.View())
}

func (a *API) RefreshTransactions(w http.ResponseWriter, r *http.Request) {
	if err := a.feed.Refresh(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, a.feed.View())
}

func (a *API) GetWalletTransfers(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.wallets.View())
}

func (a *API) RefreshWalletTransfers(w http.ResponseWriter, r *http.Request) {
	if err := a.wallets.Refresh(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, a.wallets.View())
}

func (a *API) SetAutoRefresh(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		a.writeError(w, errors.InvalidParamsErr(err))
		return
	}
	a.wallets.SetEnabled(enabled)
	a.writeJSON(w, http.StatusOK, a.wallets.View())
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.KindOf(err) {
	case errors.Invalid:
		status = http.StatusBadRequest
	case errors.Unauthorized:
		status = http.StatusUnauthorized
	case errors.Conflict:
		status = http.StatusConflict
	case errors.Remote:
		status = http.StatusBadGateway
	}
	a.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", zap.Error(err))
	}
}
