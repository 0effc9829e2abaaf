package processors

import (
	// Go Internal Packages
	"context"
	"testing"

	// Local Packages
	errors "paybot-console/errors"
	models "paybot-console/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDLQ struct {
	records []models.Record
	reason  string
	err     error
}

func (f *fakeDLQ) Send(_ context.Context, records []models.Record, reason string) error {
	f.records = append(f.records, records...)
	f.reason = reason
	return f.err
}

type countingFeed struct {
	refreshes int
	err       error
}

func (f *countingFeed) Refresh(context.Context) error {
	f.refreshes++
	return f.err
}

func record(value string) models.Record {
	return models.Record{Key: []byte("k"), Value: []byte(value), Topic: "transactions"}
}

func TestProcessRecords(t *testing.T) {
	tests := []struct {
		name          string
		records       []models.Record
		wantRefreshes int
		wantDead      int
	}{
		{name: "empty batch", wantRefreshes: 0},
		{
			name: "one refresh per batch",
			records: []models.Record{
				record(`{"transaction_id":1,"status":"pagado","event":"status_changed"}`),
				record(`{"transaction_id":"2","status":"cancelado","event":"status_changed"}`),
			},
			wantRefreshes: 1,
		},
		{
			name:     "undecodable only",
			records:  []models.Record{record(`not json`), record(`{"status":"pagado"}`)},
			wantDead: 2,
		},
		{
			name:          "mixed batch",
			records:       []models.Record{record(`{`), record(`{"transaction_id":3}`)},
			wantRefreshes: 1,
			wantDead:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dlq := &fakeDLQ{}
			feed := &countingFeed{}
			p := NewEventProcessor(zap.NewNop(), dlq, feed)

			require.NoError(t, p.ProcessRecords(context.Background(), tt.records))
			assert.Equal(t, tt.wantRefreshes, feed.refreshes)
			assert.Len(t, dlq.records, tt.wantDead)
			if tt.wantDead > 0 {
				assert.Equal(t, undecodableReason, dlq.reason)
			}
		})
	}
}

func TestDeadLetterFailureIsReturned(t *testing.T) {
	dlq := &fakeDLQ{err: errors.E(errors.Other, "redis down", nil)}
	feed := &countingFeed{}
	p := NewEventProcessor(zap.NewNop(), dlq, feed)

	err := p.ProcessRecords(context.Background(), []models.Record{record(`bad`), record(`{"transaction_id":1}`)})
	assert.Error(t, err)
	assert.Zero(t, feed.refreshes)
}

func TestRefreshFailureDoesNotFailBatch(t *testing.T) {
	feed := &countingFeed{err: errors.RemoteErr(500, "", nil)}
	p := NewEventProcessor(zap.NewNop(), nil, feed)

	assert.NoError(t, p.ProcessRecords(context.Background(), []models.Record{record(`{"transaction_id":1}`)}))
	assert.Equal(t, 1, feed.refreshes)
}
