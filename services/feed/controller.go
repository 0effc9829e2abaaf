package feed

import (
	// Go Internal Packages
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	// Local Packages
	client "paybot-console/client"
	errors "paybot-console/errors"
	metrics "paybot-console/metrics"
	models "paybot-console/models"
	filters "paybot-console/services/filters"
	progress "paybot-console/services/progress"

	// External Packages
	"go.uber.org/zap"
)

const (
	// DefaultCancelReason is sent when the operator leaves the reason blank.
	DefaultCancelReason = "Cancelado desde panel de administración"
	// ClearAllPhrase must be typed exactly to confirm a clear-all.
	ClearAllPhrase = "LIMPIAR"

	cancelWarning   = "¿Estás seguro de cancelar esta transacción? Se reembolsará el saldo al usuario."
	reasonPrompt    = "Ingresa el motivo de cancelación (opcional):"
	clearAllWarning = "¿Estás seguro de limpiar TODAS las transacciones? Esto moverá todas las transacciones a \"GUARDADO ELIMINADO\" y dejará la lista en 0. Esta acción NO se puede deshacer."
	clearAllPrompt  = "Escribe \"LIMPIAR\" para confirmar:"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

type TransactionService interface {
	ListTransactions(ctx context.Context, q models.Query) ([]models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, motivo string) (*models.Transaction, error)
	ClearAll(ctx context.Context) (*client.ClearResult, error)
}

type Journal interface {
	Record(ctx context.Context, entry models.JournalEntry) error
}

// Confirmer asks the operator to approve destructive actions.
type Confirmer interface {
	Confirm(message string) bool
	Ask(prompt string) string
}

type Row struct {
	models.Transaction
	Steps       []models.Step `json:"steps"`
	Cancellable bool          `json:"cancellable"`
	Cancelling  bool          `json:"cancelling"`
}

type View struct {
	State   State          `json:"state"`
	Filters filters.Values `json:"filters"`
	Rows    []Row          `json:"rows"`
	Summary Summary        `json:"summary"`
	Error   string         `json:"error,omitempty"`
	Notice  string         `json:"notice,omitempty"`
}

// Controller owns the loaded transaction list and the filters that produced it.
type Controller struct {
	svc      TransactionService
	composer *filters.Composer
	journal  Journal
	logger   *zap.Logger
	metrics  *metrics.Metrics

	seq atomic.Uint64

	mu         sync.Mutex
	state      State
	applied    uint64
	records    []models.Transaction
	errMsg     string
	notice     string
	cancelling map[string]bool
}

// NewController creates a controller. journal may be nil.
func NewController(svc TransactionService, composer *filters.Composer, journal Journal, logger *zap.Logger, m *metrics.Metrics) *Controller {
	return &Controller{
		svc:        svc,
		composer:   composer,
		journal:    journal,
		logger:     logger,
		metrics:    m,
		state:      StateIdle,
		cancelling: make(map[string]bool),
	}
}

// Mount performs the initial fetch.
func (c *Controller) Mount(ctx context.Context) error {
	return c.fetch(ctx)
}

// Refresh refetches with the current filters.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// SetStatus changes the status axis and refetches when the value actually changed.
func (c *Controller) SetStatus(ctx context.Context, status string) error {
	before := c.composer.Values().Status
	if err := c.composer.SetStatus(status); err != nil {
		return err
	}
	if c.composer.Values().Status == before {
		return nil
	}
	return c.fetch(ctx)
}

func (c *Controller) ApplyType(ctx context.Context, txType string) error {
	if err := c.composer.SetType(txType); err != nil {
		return err
	}
	return c.fetch(ctx)
}

func (c *Controller) ApplyDateFrom(ctx context.Context, date string) error {
	if err := c.composer.SetDateFrom(date); err != nil {
		return err
	}
	return c.fetch(ctx)
}

func (c *Controller) ApplyDateTo(ctx context.Context, date string) error {
	if err := c.composer.SetDateTo(date); err != nil {
		return err
	}
	return c.fetch(ctx)
}

func (c *Controller) ApplySearch(ctx context.Context, search string) error {
	c.composer.SetSearch(search)
	return c.fetch(ctx)
}

// fetch loads the list for the composer's current query. Completions older than the newest
// applied one are discarded.
func (c *Controller) fetch(ctx context.Context) error {
	seq := c.seq.Add(1)
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	records, err := c.svc.ListTransactions(ctx, c.composer.Query())

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied {
		c.metrics.StaleResponses.WithLabelValues("transactions").Inc()
		c.logger.Debug("discarding stale transaction list", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return nil
	}
	c.applied = seq

	if err != nil {
		c.logger.Error("failed to load transactions", zap.Error(err))
		if errors.Is(errors.Unauthorized, err) {
			c.state = c.settledState()
			return err
		}
		c.state = StateError
		c.errMsg = errors.UserMessage(err, "Error al cargar transacciones")
		return err
	}

	c.records = records
	c.state = StateReady
	c.errMsg = ""
	return nil
}

func (c *Controller) settledState() State {
	if c.records == nil {
		return StateIdle
	}
	return StateReady
}

// Cancel moves a loaded, non-terminal transaction to cancelado after the operator confirms.
// A blank reason is replaced with DefaultCancelReason. The list is refetched on success.
func (c *Controller) Cancel(ctx context.Context, id string, confirmer Confirmer) error {
	c.mu.Lock()
	tx, ok := c.find(id)
	switch {
	case !ok:
		c.mu.Unlock()
		return errors.E(errors.Invalid, fmt.Sprintf("transaction %s is not in the loaded list", id), nil)
	case tx.Status.Terminal():
		c.mu.Unlock()
		return errors.TerminalStatusErr(id, string(tx.Status))
	case c.cancelling[id]:
		c.mu.Unlock()
		return errors.InFlightErr("cancellation of transaction " + id)
	}
	c.mu.Unlock()

	if !confirmer.Confirm(cancelWarning) {
		return errors.E(errors.Aborted, "cancellation not confirmed", nil)
	}
	reason := strings.TrimSpace(confirmer.Ask(reasonPrompt))
	if reason == "" {
		reason = DefaultCancelReason
	}

	c.mu.Lock()
	if c.cancelling[id] {
		c.mu.Unlock()
		return errors.InFlightErr("cancellation of transaction " + id)
	}
	c.cancelling[id] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.cancelling, id)
		c.mu.Unlock()
	}()

	_, err := c.svc.UpdateStatus(ctx, id, models.StatusCancelado, reason)
	c.record(ctx, models.JournalEntry{
		Action: models.ActionCancel,
		Target: id,
		Params: map[string]any{"motivo": reason},
	}, err)
	if err != nil {
		c.fail(err, "Error al cancelar transacción")
		return err
	}

	c.logger.Info("transaction cancelled", zap.String("id", id))
	c.setNotice("Transacción cancelada exitosamente")
	return c.fetch(ctx)
}

// ClearAll archives every transaction. It needs a yes/no confirmation followed by the exact
// ClearAllPhrase; anything else aborts without a request.
func (c *Controller) ClearAll(ctx context.Context, confirmer Confirmer) error {
	if !confirmer.Confirm(clearAllWarning) {
		return errors.E(errors.Aborted, "clear-all not confirmed", nil)
	}
	if confirmer.Ask(clearAllPrompt) != ClearAllPhrase {
		return errors.E(errors.Invalid, "confirmation phrase mismatch, operation cancelled", nil)
	}

	res, err := c.svc.ClearAll(ctx)
	c.record(ctx, models.JournalEntry{Action: models.ActionClearAll}, err)
	if err != nil {
		c.fail(err, "Error al limpiar transacciones")
		return err
	}

	msg := "Transacciones limpiadas exitosamente"
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	c.logger.Info("transactions cleared", zap.String("message", msg))
	c.setNotice(msg)
	return c.fetch(ctx)
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, len(c.records))
	for i, tx := range c.records {
		rows[i] = Row{
			Transaction: tx,
			Steps:       progress.Derive(tx),
			Cancellable: !tx.Status.Terminal(),
			Cancelling:  c.cancelling[tx.ID.String()],
		}
	}
	return View{
		State:   c.state,
		Filters: c.composer.Values(),
		Rows:    rows,
		Summary: Summarize(c.records),
		Error:   c.errMsg,
		Notice:  c.notice,
	}
}

func (c *Controller) find(id string) (models.Transaction, bool) {
	for _, tx := range c.records {
		if tx.ID.String() == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

func (c *Controller) fail(err error, fallback string) {
	if errors.Is(errors.Unauthorized, err) {
		return
	}
	c.mu.Lock()
	c.errMsg = errors.UserMessage(err, fallback)
	c.mu.Unlock()
}

func (c *Controller) setNotice(msg string) {
	c.mu.Lock()
	c.notice = msg
	c.mu.Unlock()
}

func (c *Controller) record(ctx context.Context, entry models.JournalEntry, err error) {
	if c.journal == nil {
		return
	}
	entry.IssuedAt = time.Now().UTC()
	entry.Success = err == nil
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := c.journal.Record(ctx, entry); jerr != nil {
		c.logger.Warn("failed to journal operator action", zap.String("action", string(entry.Action)), zap.Error(jerr))
	}
}
