package feed

import (
	// Go Internal Packages
	"context"
	"sync"
	"testing"
	"time"

	// Local Packages
	client "paybot-console/client"
	errors "paybot-console/errors"
	metrics "paybot-console/metrics"
	models "paybot-console/models"
	filters "paybot-console/services/filters"

	// External Packages
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type listCall struct {
	query   models.Query
	release chan struct{}
	records []models.Transaction
	err     error
}

type fakeService struct {
	mu       sync.Mutex
	records  []models.Transaction
	listErr  error
	queries  []models.Query
	blocking chan *listCall

	updates   []string
	motivos   []string
	updateErr error
	clears    int
	clearRes  *client.ClearResult
}

func (f *fakeService) ListTransactions(ctx context.Context, q models.Query) ([]models.Transaction, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	blocking := f.blocking
	records, err := f.records, f.listErr
	f.mu.Unlock()

	if blocking != nil {
		call := &listCall{query: q, release: make(chan struct{})}
		blocking <- call
		<-call.release
		return call.records, call.err
	}
	return records, err
}

func (f *fakeService) UpdateStatus(ctx context.Context, id string, status models.Status, motivo string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	f.motivos = append(f.motivos, motivo)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Transaction{ID: models.FlexibleString(id), Status: status}, nil
}

func (f *fakeService) ClearAll(ctx context.Context) (*client.ClearResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return f.clearRes, nil
}

type scriptedConfirmer struct {
	confirm bool
	answer  string
	asked   []string
}

func (s *scriptedConfirmer) Confirm(string) bool { return s.confirm }

func (s *scriptedConfirmer) Ask(prompt string) string {
	s.asked = append(s.asked, prompt)
	return s.answer
}

type memJournal struct {
	entries []models.JournalEntry
}

func (j *memJournal) Record(_ context.Context, e models.JournalEntry) error {
	j.entries = append(j.entries, e)
	return nil
}

func newController(svc TransactionService, journal Journal) (*Controller, *metrics.Metrics) {
	m := metrics.New("test")
	return NewController(svc, filters.NewComposer(time.UTC), journal, zap.NewNop(), m), m
}

func sampleRecords() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Status: models.StatusPendiente, Type: models.TypePago},
		{ID: "2", Status: models.StatusPagado, Type: models.TypeCarga},
		{ID: "3", Status: models.StatusCancelado, Type: models.TypeReembolso},
	}
}

func TestMountLoadsAllTransactions(t *testing.T) {
	svc := &fakeService{records: sampleRecords()}
	c, _ := newController(svc, nil)

	require.NoError(t, c.Mount(context.Background()))

	view := c.View()
	assert.Equal(t, StateReady, view.State)
	assert.Len(t, view.Rows, 3)
	assert.Equal(t, models.Query{}, svc.queries[0])
	assert.True(t, view.Rows[0].Cancellable)
	assert.False(t, view.Rows[1].Cancellable)
	assert.False(t, view.Rows[2].Cancellable)
	assert.Len(t, view.Rows[2].Steps, 2)
}

func TestSetStatusRefetchesOnlyOnChange(t *testing.T) {
	svc := &fakeService{records: sampleRecords()}
	c, _ := newController(svc, nil)
	ctx := context.Background()

	require.NoError(t, c.SetStatus(ctx, "pendiente"))
	require.NoError(t, c.SetStatus(ctx, "pendiente"))
	assert.Len(t, svc.queries, 1)
	assert.Equal(t, "pendiente", svc.queries[0].Status)

	require.NoError(t, c.SetStatus(ctx, filters.All))
	require.Len(t, svc.queries, 2)
	assert.Empty(t, svc.queries[1].Status)
}

func TestApplyDateRangeRejectsInvertedRange(t *testing.T) {
	svc := &fakeService{}
	c, _ := newController(svc, nil)
	ctx := context.Background()

	require.NoError(t, c.ApplyDateFrom(ctx, "2024-05-10"))
	err := c.ApplyDateTo(ctx, "2024-05-01")
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Len(t, svc.queries, 1)
	assert.Empty(t, c.View().Filters.DateTo)
}

func TestFetchFailureKeepsRecordsAndSetsMessage(t *testing.T) {
	svc := &fakeService{records: sampleRecords()}
	c, _ := newController(svc, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	svc.listErr = errors.RemoteErr(500, "db down", nil)
	require.Error(t, c.Refresh(ctx))

	view := c.View()
	assert.Equal(t, StateError, view.State)
	assert.Equal(t, "Error al cargar transacciones: db down", view.Error)
	assert.Len(t, view.Rows, 3)
}

func TestUnauthorizedFetchLeavesNoMessage(t *testing.T) {
	svc := &fakeService{listErr: errors.E(errors.Unauthorized, "session expired", nil)}
	c, _ := newController(svc, nil)

	err := c.Mount(context.Background())
	assert.True(t, errors.Is(errors.Unauthorized, err))
	assert.Empty(t, c.View().Error)
	assert.Equal(t, StateIdle, c.View().State)
}

func TestStaleListResponseIsDiscarded(t *testing.T) {
	svc := &fakeService{blocking: make(chan *listCall)}
	c, m := newController(svc, nil)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- c.Refresh(ctx) }()
	first := <-svc.blocking

	go func() { errs <- c.ApplySearch(ctx, "alice") }()
	second := <-svc.blocking
	assert.Equal(t, "alice", second.query.Search)

	second.records = []models.Transaction{{ID: "9", Status: models.StatusPendiente, Username: "alice"}}
	close(second.release)
	require.NoError(t, <-errs)

	first.records = sampleRecords()
	close(first.release)
	require.NoError(t, <-errs)

	view := c.View()
	require.Len(t, view.Rows, 1)
	assert.Equal(t, models.FlexibleString("9"), view.Rows[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResponses.WithLabelValues("transactions")))
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		confirmer   *scriptedConfirmer
		wantKind    errors.Kind
		wantUpdates int
		wantMotivo  string
	}{
		{
			name:        "blank reason uses default",
			id:          "1",
			confirmer:   &scriptedConfirmer{confirm: true, answer: "   "},
			wantUpdates: 1,
			wantMotivo:  DefaultCancelReason,
		},
		{
			name:        "explicit reason is sent",
			id:          "1",
			confirmer:   &scriptedConfirmer{confirm: true, answer: "duplicado"},
			wantUpdates: 1,
			wantMotivo:  "duplicado",
		},
		{
			name:      "declined confirmation",
			id:        "1",
			confirmer: &scriptedConfirmer{confirm: false},
			wantKind:  errors.Aborted,
		},
		{
			name:      "terminal status",
			id:        "2",
			confirmer: &scriptedConfirmer{confirm: true},
			wantKind:  errors.Conflict,
		},
		{
			name:      "unknown id",
			id:        "42",
			confirmer: &scriptedConfirmer{confirm: true},
			wantKind:  errors.Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{records: sampleRecords()}
			journal := &memJournal{}
			c, _ := newController(svc, journal)
			ctx := context.Background()
			require.NoError(t, c.Mount(ctx))

			err := c.Cancel(ctx, tt.id, tt.confirmer)
			if tt.wantKind != errors.Other {
				assert.True(t, errors.Is(tt.wantKind, err), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, svc.updates, tt.wantUpdates)
			if tt.wantUpdates > 0 {
				assert.Equal(t, tt.wantMotivo, svc.motivos[0])
				assert.Len(t, svc.queries, 2)
				require.Len(t, journal.entries, 1)
				assert.Equal(t, models.ActionCancel, journal.entries[0].Action)
				assert.True(t, journal.entries[0].Success)
				assert.Equal(t, "Transacción cancelada exitosamente", c.View().Notice)
			} else {
				assert.Empty(t, journal.entries)
			}
		})
	}
}

func TestCancelRemoteFailureSurfacesDetail(t *testing.T) {
	svc := &fakeService{records: sampleRecords(), updateErr: errors.RemoteErr(400, "saldo insuficiente", nil)}
	journal := &memJournal{}
	c, _ := newController(svc, journal)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	err := c.Cancel(ctx, "1", &scriptedConfirmer{confirm: true})
	require.Error(t, err)
	assert.Equal(t, "Error al cancelar transacción: saldo insuficiente", c.View().Error)
	assert.False(t, c.View().Rows[0].Cancelling)
	require.Len(t, journal.entries, 1)
	assert.False(t, journal.entries[0].Success)
}

func TestClearAll(t *testing.T) {
	tests := []struct {
		name       string
		confirmer  *scriptedConfirmer
		wantKind   errors.Kind
		wantClears int
	}{
		{name: "exact phrase", confirmer: &scriptedConfirmer{confirm: true, answer: ClearAllPhrase}, wantClears: 1},
		{name: "lowercase phrase", confirmer: &scriptedConfirmer{confirm: true, answer: "limpiar"}, wantKind: errors.Invalid},
		{name: "declined", confirmer: &scriptedConfirmer{confirm: false, answer: ClearAllPhrase}, wantKind: errors.Aborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{records: sampleRecords(), clearRes: &client.ClearResult{Message: "3 transacciones movidas", Deleted: 3}}
			c, _ := newController(svc, nil)
			ctx := context.Background()

			err := c.ClearAll(ctx, tt.confirmer)
			if tt.wantKind != errors.Other {
				assert.True(t, errors.Is(tt.wantKind, err), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "3 transacciones movidas", c.View().Notice)
				assert.Len(t, svc.queries, 1)
			}
			assert.Equal(t, tt.wantClears, svc.clears)
		})
	}
}
