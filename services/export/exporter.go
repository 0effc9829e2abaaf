package export

import (
	// Go Internal Packages
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	// Local Packages
	errors "paybot-console/errors"
	models "paybot-console/models"

	// External Packages
	"go.uber.org/zap"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

var filenames = map[Format]string{
	FormatCSV: "transacciones.csv",
	FormatPDF: "transacciones.pdf",
}

type Service interface {
	Export(ctx context.Context, format string, params url.Values) ([]byte, error)
	DeletedPDF(ctx context.Context, month, year int) ([]byte, error)
}

// QuerySource yields the filter currently applied to the live listing.
type QuerySource interface {
	Query() models.Query
}

type Journal interface {
	Record(ctx context.Context, entry models.JournalEntry) error
}

// Exporter downloads listings and hands them to a Saver. Only one download runs at a time.
type Exporter struct {
	svc      Service
	filters  QuerySource
	saver    Saver
	journal  Journal
	logger   *zap.Logger
	inFlight atomic.Bool
}

// NewExporter creates an exporter. journal may be nil.
func NewExporter(svc Service, filters QuerySource, saver Saver, journal Journal, logger *zap.Logger) *Exporter {
	return &Exporter{svc: svc, filters: filters, saver: saver, journal: journal, logger: logger}
}

// InFlight reports whether a download is running.
func (e *Exporter) InFlight() bool {
	return e.inFlight.Load()
}

// Export downloads the transactions matching the live listing's filter in the given format and
// saves them under the format's fixed file name.
func (e *Exporter) Export(ctx context.Context, format Format) (string, error) {
	name, ok := filenames[format]
	if !ok {
		return "", errors.E(errors.Invalid, fmt.Sprintf("unsupported export format %q", format), nil)
	}
	params := e.filters.Query().Params()

	return e.run(ctx, name, params, func(ctx context.Context) ([]byte, error) {
		return e.svc.Export(ctx, string(format), params)
	})
}

// DeletedReport downloads the archived transactions report for a month. A zero month or year
// selects the current month.
func (e *Exporter) DeletedReport(ctx context.Context, month, year int) (string, error) {
	if month < 0 || month > 12 || year < 0 {
		return "", errors.E(errors.Invalid, fmt.Sprintf("invalid period %d/%d", month, year), nil)
	}
	if month == 0 || year == 0 {
		now := time.Now()
		month, year = int(now.Month()), now.Year()
	}
	name := fmt.Sprintf("movimientos-eliminados-%d-%d.pdf", month, year)
	params := url.Values{"month": {fmt.Sprint(month)}, "year": {fmt.Sprint(year)}}

	return e.run(ctx, name, params, func(ctx context.Context) ([]byte, error) {
		return e.svc.DeletedPDF(ctx, month, year)
	})
}

func (e *Exporter) run(ctx context.Context, name string, params url.Values, download func(context.Context) ([]byte, error)) (string, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return "", errors.InFlightErr("export")
	}
	defer e.inFlight.Store(false)

	content, err := download(ctx)
	var path string
	if err == nil {
		path, err = e.saver.Save(name, content)
	}
	e.record(ctx, name, params, err)
	if err != nil {
		e.logger.Error("export failed", zap.String("file", name), zap.Error(err))
		return "", err
	}

	e.logger.Info("export saved", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}

func (e *Exporter) record(ctx context.Context, name string, params url.Values, err error) {
	if e.journal == nil {
		return
	}
	entry := models.JournalEntry{
		Action:   models.ActionExport,
		Target:   name,
		Params:   map[string]any{},
		Success:  err == nil,
		IssuedAt: time.Now().UTC(),
	}
	for k := range params {
		entry.Params[k] = params.Get(k)
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := e.journal.Record(ctx, entry); jerr != nil {
		e.logger.Warn("failed to journal export", zap.Error(jerr))
	}
}
