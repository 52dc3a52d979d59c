// Package upload ingests journal-entry spreadsheets. The workbook is read
// twice: one streaming pass to count rows, one to insert in batches, so
// progress percentages are exact from the first batch on.
package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

// DefaultBatchSize is the insert batch size when none is configured.
const DefaultBatchSize = 500

// Result summarizes one finished upload.
type Result struct {
	Rows      int     `json:"rows"`
	TotalRows int     `json:"totalRows"`
	Seconds   float64 `json:"time"`
}

// Service runs uploads against the entry store and reports progress through
// the broker.
type Service struct {
	store     store.EntryStore
	broker    *Broker
	batchSize int
	log       zerolog.Logger
}

func NewService(st store.EntryStore, broker *Broker, batchSize int, log zerolog.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{store: st, broker: broker, batchSize: batchSize, log: log}
}

// Broker exposes the progress broker for the SSE handler.
func (s *Service) Broker() *Broker {
	return s.broker
}

// Process ingests one workbook under the given session id. Inserts are
// best-effort: rows written before a failure stay written, and the returned
// count reflects what actually landed.
func (s *Service) Process(ctx context.Context, uploadID string, r io.Reader) (int, error) {
	f, sheet, err := OpenWorkbook(r)
	if err != nil {
		s.fail(uploadID, 0, err)
		return 0, err
	}
	defer f.Close()

	totalRows, err := countDataRows(f, sheet)
	if err != nil {
		s.fail(uploadID, 0, err)
		return 0, err
	}
	s.broker.Publish(uploadID, Event{Status: "started", TotalRows: totalRows})
	s.log.Info().Str("upload_id", uploadID).Int("total_rows", totalRows).Msg("upload started")

	rows, err := f.Rows(sheet)
	if err != nil {
		s.fail(uploadID, 0, err)
		return 0, fmt.Errorf("upload: read rows: %w", err)
	}
	defer rows.Close()

	batch := make([]domain.Entry, 0, s.batchSize)
	processed := 0
	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum == 1 {
			continue
		}
		cells, err := rows.Columns()
		if err != nil {
			s.fail(uploadID, processed, err)
			return processed, fmt.Errorf("upload: read row %d: %w", rowNum, err)
		}
		batch = append(batch, entryFromRow(cells, rowNum))

		if len(batch) == s.batchSize {
			n, err := s.flush(ctx, uploadID, batch, processed, totalRows)
			processed += n
			if err != nil {
				return processed, err
			}
			batch = batch[:0]
		}
	}
	if err := rows.Error(); err != nil {
		s.fail(uploadID, processed, err)
		return processed, fmt.Errorf("upload: stream rows: %w", err)
	}
	if len(batch) > 0 {
		n, err := s.flush(ctx, uploadID, batch, processed, totalRows)
		processed += n
		if err != nil {
			return processed, err
		}
	}

	s.broker.Close(uploadID, Event{Status: "completed", Processed: processed, TotalRows: totalRows, Percent: 100})
	s.log.Info().Str("upload_id", uploadID).Int("rows", processed).Msg("upload completed")
	return processed, nil
}

func (s *Service) flush(ctx context.Context, uploadID string, batch []domain.Entry, already, totalRows int) (int, error) {
	n, err := s.store.InsertBatch(ctx, batch)
	if err != nil {
		s.fail(uploadID, already+n, err)
		return n, fmt.Errorf("upload: insert batch: %w", err)
	}
	processed := already + n
	percent := 0
	if totalRows > 0 {
		percent = processed * 100 / totalRows
	}
	s.broker.Publish(uploadID, Event{Status: "processing", Processed: processed, TotalRows: totalRows, Percent: percent})
	return n, nil
}

func (s *Service) fail(uploadID string, processed int, err error) {
	s.log.Error().Str("upload_id", uploadID).Int("processed", processed).Err(err).Msg("upload failed")
	s.broker.Close(uploadID, Event{Status: "failed", Processed: processed, Error: err.Error()})
}
