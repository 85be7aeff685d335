package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/store"
)

// Publisher sends change events; *amqp.Client implements it.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
}

// ExpenseService orchestrates expense operations across the store and the
// optional event publisher
type ExpenseService struct {
	store     *store.Store
	publisher Publisher
}

func NewExpenseService(store *store.Store, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

// Store exposes the underlying store for read-only queries.
func (s *ExpenseService) Store() *store.Store {
	return s.store
}

// CreateExpense coerces raw input, saves the expense and publishes an event
func (s *ExpenseService) CreateExpense(ctx context.Context, description, amount, category string) (core.Expense, error) {
	e, err := s.store.AddFromInput(ctx, description, amount, category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created", log.NewFields().
		WithOperation(log.OpCreate).
		WithExpense(e.ID, e.Description, e.Amount, e.Category.String()).
		ToSlice()...)

	s.publish(ctx, amqp.EventCreated, e.ID)
	return e, nil
}

// EditInput holds raw edit values. A nil field was not supplied.
type EditInput struct {
	Description *string
	Amount      *string
	Category    *string
}

// IsEmpty reports whether no field was supplied.
func (in EditInput) IsEmpty() bool {
	return in.Description == nil && in.Amount == nil && in.Category == nil
}

// EditExpense applies user edits the way the expense form does: a blank
// description or an amount that is unparsable or zero keeps the current
// value, while an unknown category rejects the whole edit.
func (s *ExpenseService) EditExpense(ctx context.Context, id string, in EditInput) (core.Expense, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return core.Expense{}, fmt.Errorf("edit %s: %w", id, core.ErrNotFound)
	}

	var p core.Patch
	if in.Category != nil {
		c, err := core.ParseCategory(*in.Category)
		if err != nil {
			return core.Expense{}, fmt.Errorf("category %q: %w", *in.Category, err)
		}
		p.Category = &c
	}
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			p.Description = &d
		}
	}
	if in.Amount != nil {
		if v, err := core.ParseAmount(*in.Amount); err == nil && v != 0 {
			p.Amount = &v
		}
	}

	if p.IsEmpty() {
		return current, nil
	}
	if err := s.store.Update(ctx, id, p); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	updated, _ := s.store.Get(id)
	slog.InfoContext(ctx, "Expense updated", log.NewFields().
		WithOperation(log.OpUpdate).
		WithExpense(updated.ID, updated.Description, updated.Amount, updated.Category.String()).
		ToSlice()...)
	s.publish(ctx, amqp.EventUpdated, id)
	return updated, nil
}

// DeleteExpense removes an expense and publishes an event
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if _, ok := s.store.Get(id); !ok {
		return fmt.Errorf("delete %s: %w", id, core.ErrNotFound)
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	s.publish(ctx, amqp.EventDeleted, id)
	return nil
}

// Summary is the data behind the totals panel.
type Summary struct {
	Filter        string
	Count         int
	Total         float64
	FilteredTotal float64
	Breakdown     []core.CategoryStat
}

// Summarize computes the grand total, the total for filter, the overall
// count and the ranked category breakdown.
func (s *ExpenseService) Summarize(filter string) Summary {
	all := s.store.Filter(core.FilterAll)
	return Summary{
		Filter:        filter,
		Count:         len(all),
		Total:         store.Total(all),
		FilteredTotal: store.Total(s.store.Filter(filter)),
		Breakdown:     s.store.RankedBreakdown(),
	}
}

// List returns the expenses matching filter, newest first.
func (s *ExpenseService) List(filter string) []core.Expense {
	return store.Sorted(s.store.Filter(filter))
}

// publish never fails the caller: the expense is already stored.
func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event", log.NewFields().
			WithOperation(log.OpPublish).
			WithEvent(string(t), id).
			WithError(err).
			ToSlice()...)
	}
}
