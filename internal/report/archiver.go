// internal/report/archiver.go
package report

import (
	"bytes"
	"context"
	"path"

	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/storage/archive"
)

// Archiver persists run artifacts through an archive backend. Each run gets
// a directory runs/<id>/ holding report.json and equity.csv.
type Archiver struct {
	storage archive.Storage
	logger  *zap.Logger
}

// NewArchiver creates an Archiver on top of the given storage backend.
func NewArchiver(storage archive.Storage, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{storage: storage, logger: logger}
}

// Archive writes the run's report and equity curve. The report is written
// first so a partially archived run is still inspectable.
func (a *Archiver) Archive(ctx context.Context, runID string, result *backtest.Result) error {
	dir := path.Join("runs", runID)

	reportData, err := ResultJSON(result)
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := a.storage.Write(ctx, path.Join(dir, "report.json"), reportData); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	var buf bytes.Buffer
	if err := WriteEquityCSV(&buf, result); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := a.storage.Write(ctx, path.Join(dir, "equity.csv"), buf.Bytes()); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	a.logger.Info("archived backtest run",
		zap.String("run_id", runID),
		zap.String("strategy", result.Strategy),
		zap.Int("bars", len(result.Equity)))
	return nil
}

// ReadReport loads a previously archived report.json.
func (a *Archiver) ReadReport(ctx context.Context, runID string) ([]byte, error) {
	data, err := a.storage.Read(ctx, path.Join("runs", runID, "report.json"))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return data, nil
}
