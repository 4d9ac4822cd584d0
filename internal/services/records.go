// Package services orchestrates record mutations across the SQLite store
// and the AMQP change bus. Persistence always comes first; a failed publish
// is logged and never fails the request.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finance/internal/core"
	"finance/internal/events"
	"finance/internal/storage"
)

// RecordService wraps the repository with change notification.
type RecordService struct {
	storage *storage.Repository
	bus     *events.Client
}

func NewRecordService(storage *storage.Repository, bus *events.Client) *RecordService {
	return &RecordService{
		storage: storage,
		bus:     bus,
	}
}

func (s *RecordService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *RecordService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// CreateTransaction saves a transaction and publishes a change event.
func (s *RecordService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, events.EntityTransaction, events.OpCreate, created.ID)
	return created, nil
}

func (s *RecordService) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.storage.UpdateTransaction(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, events.EntityTransaction, events.OpUpdate, id)
	return updated, nil
}

func (s *RecordService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EntityTransaction, events.OpDelete, id)
	return nil
}

func (s *RecordService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return s.storage.ListBudgets(ctx)
}

func (s *RecordService) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	return s.storage.GetBudget(ctx, id)
}

func (s *RecordService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	created, err := s.storage.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.publish(ctx, events.EntityBudget, events.OpCreate, created.ID)
	return created, nil
}

func (s *RecordService) UpdateBudget(ctx context.Context, id string, b core.Budget) (core.Budget, error) {
	updated, err := s.storage.UpdateBudget(ctx, id, b)
	if err != nil {
		return core.Budget{}, err
	}
	s.publish(ctx, events.EntityBudget, events.OpUpdate, id)
	return updated, nil
}

func (s *RecordService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.storage.DeleteBudget(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EntityBudget, events.OpDelete, id)
	return nil
}

// publish notifies the bus of a change. The record is already durable, so a
// publish failure only costs the downstream export, not the request.
func (s *RecordService) publish(ctx context.Context, entity, op, id string) {
	if err := s.bus.PublishChange(ctx, events.NewRecordChange(entity, op, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"error", err,
			"entity", entity,
			"op", op,
			"id", id)
	}
}

// Close closes the storage and bus connections.
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}
	return nil
}
