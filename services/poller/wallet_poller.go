package poller

import (
	// Go Internal Packages
	"context"
	"sync"
	"sync/atomic"
	"time"

	// Local Packages
	codec "paybot-console/codec"
	errors "paybot-console/errors"
	metrics "paybot-console/metrics"
	models "paybot-console/models"

	// External Packages
	"go.uber.org/zap"
)

// DefaultInterval is the refetch period used when none is configured.
const DefaultInterval = 30 * time.Second

const timestampLayout = "02/01/2006, 15:04:05"

type WalletService interface {
	ListWalletTransfers(ctx context.Context) ([]models.WalletTransfer, error)
}

// Ticker is the subset of *time.Ticker the poller needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type stdTicker struct{ *time.Ticker }

func (t stdTicker) C() <-chan time.Time { return t.Ticker.C }

func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{time.NewTicker(d)}
}

type Config struct {
	Interval time.Duration
	Enabled  bool
	Location *time.Location
	Ticker   TickerFactory
}

// Row is a transfer rendered for display.
type Row struct {
	Hash        string `json:"hash"`
	HashShort   string `json:"hash_short"`
	HashLink    string `json:"hash_link"`
	From        string `json:"from"`
	FromShort   string `json:"from_short"`
	FromLink    string `json:"from_link"`
	To          string `json:"to"`
	ToShort     string `json:"to_short"`
	ToLink      string `json:"to_link"`
	Amount      string `json:"amount"`
	Network     string `json:"network"`
	Confirmed   bool   `json:"confirmed"`
	Timestamp   string `json:"timestamp"`
	AmountError string `json:"amount_error,omitempty"`
}

type View struct {
	Enabled     bool       `json:"enabled"`
	Loading     bool       `json:"loading"`
	BEP20       []Row      `json:"bep20"`
	TRC20       []Row      `json:"trc20"`
	Total       int        `json:"total"`
	Error       string     `json:"error,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Poller keeps the wallet transfer list fresh. It owns its timer: the timer runs only between
// Start and Stop while polling is enabled, and never fires after SetEnabled(false) or Stop
// return.
type Poller struct {
	svc       WalletService
	interval  time.Duration
	loc       *time.Location
	newTicker TickerFactory
	logger    *zap.Logger
	metrics   *metrics.Metrics

	seq atomic.Uint64

	// toggleMu serializes SetEnabled and Stop so a halt and the following start are one step.
	toggleMu sync.Mutex

	mu        sync.Mutex
	parent    context.Context
	enabled   bool
	stopped   bool
	cancel    context.CancelFunc
	done      chan struct{}
	inflight  int
	applied   uint64
	transfers []models.WalletTransfer
	errMsg    string
	updatedAt *time.Time
}

func New(conf Config, svc WalletService, logger *zap.Logger, m *metrics.Metrics) *Poller {
	if conf.Interval <= 0 {
		conf.Interval = DefaultInterval
	}
	if conf.Location == nil {
		conf.Location = time.Local
	}
	if conf.Ticker == nil {
		conf.Ticker = NewStdTicker
	}
	return &Poller{
		svc:       svc,
		interval:  conf.Interval,
		loc:       conf.Location,
		newTicker: conf.Ticker,
		logger:    logger,
		metrics:   m,
		enabled:   conf.Enabled,
	}
}

// Start activates the poller under ctx. When polling is enabled it fetches immediately and
// then every interval; otherwise it performs a single fetch.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.parent != nil {
		p.mu.Unlock()
		return
	}
	p.parent = ctx
	enabled := p.enabled
	if enabled {
		p.startLocked()
	}
	p.mu.Unlock()

	if !enabled {
		_ = p.Refresh(ctx)
	}
}

// SetEnabled toggles polling. Disabling cancels the pending timer before returning; enabling
// fetches immediately and restarts the timer from a full interval.
func (p *Poller) SetEnabled(enabled bool) {
	p.toggleMu.Lock()
	defer p.toggleMu.Unlock()
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
	if enabled && p.parent != nil && !p.stopped {
		p.startLocked()
	}
	p.logger.Info("wallet polling toggled", zap.Bool("enabled", enabled))
}

// Refresh performs one fetch without touching the timer.
func (p *Poller) Refresh(ctx context.Context) error {
	return p.fetch(ctx)
}

// Stop tears the poller down. It is safe to call more than once.
func (p *Poller) Stop() {
	p.toggleMu.Lock()
	defer p.toggleMu.Unlock()
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.halt()
}

// startLocked launches the loop unless one is already running.
func (p *Poller) startLocked() {
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(p.parent)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	go p.loop(ctx, done)
}

// halt stops the running loop, if any, and waits for it to exit.
func (p *Poller) halt() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if p.tick(ctx, done) {
		return
	}
	ticker := p.newTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if p.tick(ctx, done) {
				return
			}
		}
	}
}

// tick runs one timer-driven fetch and reports whether the loop must end.
func (p *Poller) tick(ctx context.Context, done chan struct{}) bool {
	err := p.fetch(ctx)
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(errors.Unauthorized, err) {
		p.logger.Warn("wallet polling halted, credential rejected")
		p.mu.Lock()
		if p.done == done {
			p.cancel()
			p.cancel, p.done = nil, nil
		}
		p.enabled = false
		p.mu.Unlock()
		return true
	}
	return false
}

func (p *Poller) fetch(ctx context.Context) error {
	seq := p.seq.Add(1)
	p.mu.Lock()
	p.inflight++
	p.mu.Unlock()

	transfers, err := p.svc.ListWalletTransfers(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--
	if seq <= p.applied {
		p.metrics.StaleResponses.WithLabelValues("wallet_transfers").Inc()
		p.logger.Debug("discarding stale wallet transfer list", zap.Uint64("seq", seq), zap.Uint64("applied", p.applied))
		return nil
	}
	if err != nil && ctx.Err() != nil {
		// abandoned by a stop or toggle, not a remote failure
		return err
	}
	p.applied = seq

	if err != nil {
		p.metrics.PollFailures.Inc()
		p.logger.Error("failed to load wallet transfers", zap.Error(err))
		if !errors.Is(errors.Unauthorized, err) {
			p.errMsg = errors.UserMessage(err, "Error al cargar transacciones")
		}
		return err
	}

	now := time.Now()
	p.transfers = transfers
	p.errMsg = ""
	p.updatedAt = &now
	p.logger.Debug("wallet transfers loaded", zap.Int("total", len(transfers)))
	return nil
}

// View partitions the last successful fetch by network class. Transfers on unknown networks
// are left out of both partitions but counted in Total.
func (p *Poller) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Enabled:     p.enabled,
		Loading:     p.inflight > 0,
		BEP20:       []Row{},
		TRC20:       []Row{},
		Total:       len(p.transfers),
		Error:       p.errMsg,
		LastUpdated: p.updatedAt,
	}
	for i := range p.transfers {
		tr := &p.transfers[i]
		switch tr.Class() {
		case models.ClassBEP20:
			v.BEP20 = append(v.BEP20, p.render(tr))
		case models.ClassTRC20:
			v.TRC20 = append(v.TRC20, p.render(tr))
		}
	}
	return v
}

func (p *Poller) render(tr *models.WalletTransfer) Row {
	row := Row{
		Hash:      tr.Hash,
		HashShort: codec.TruncateHash(tr.Hash),
		HashLink:  codec.TxLink(tr.Network, tr.Hash),
		From:      tr.From,
		FromShort: codec.TruncateAddress(tr.From),
		FromLink:  codec.AddressLink(tr.Network, tr.From),
		To:        tr.To,
		ToShort:   codec.TruncateAddress(tr.To),
		ToLink:    codec.AddressLink(tr.Network, tr.To),
		Network:   tr.Network,
		Confirmed: tr.IsConfirmed(),
		Timestamp: "N/A",
	}

	amount, err := codec.DecodeAmount(tr.Value.String(), codec.ParseTokenDecimal(tr.TokenDecimal.String()))
	if err != nil {
		row.AmountError = err.Error()
	}
	row.Amount = amount

	if secs, err := tr.TimeStamp.ToInt64(); err == nil && secs > 0 {
		row.Timestamp = time.Unix(secs, 0).In(p.loc).Format(timestampLayout)
	}
	return row
}
