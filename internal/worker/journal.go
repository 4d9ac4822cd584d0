// Package worker consumes record-change events and journals transactions to
// the export spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance/internal/core"
	"finance/internal/events"
	"finance/internal/export"
	"finance/internal/storage"
)

// JournalWorker exports created and updated transactions. Deletes are only
// logged; the journal is append-only.
type JournalWorker struct {
	storage  *storage.Repository
	appender export.Appender
	logger   *slog.Logger
}

func NewJournalWorker(storage *storage.Repository, appender export.Appender, logger *slog.Logger) *JournalWorker {
	return &JournalWorker{
		storage:  storage,
		appender: appender,
		logger:   logger.With("component", "worker"),
	}
}

// Handle processes one record-change event. Only transactions are exported;
// budget changes are acknowledged without action.
func (w *JournalWorker) Handle(ctx context.Context, msg *events.RecordChange) error {
	w.logger.InfoContext(ctx, "processing change",
		"entity", msg.Entity,
		"op", msg.Op,
		"id", msg.ID)

	if msg.Entity != events.EntityTransaction {
		return nil
	}

	if msg.Op == events.OpDelete {
		w.logger.InfoContext(ctx, "transaction deleted, journal keeps its rows", "id", msg.ID)
		return nil
	}

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between the event and now; nothing left to export.
			w.logger.WarnContext(ctx, "transaction vanished before export", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("load transaction %s: %w", msg.ID, err)
	}

	if err := w.appender.Append(ctx, tx); err != nil {
		return fmt.Errorf("export transaction %s: %w", msg.ID, err)
	}
	return nil
}
