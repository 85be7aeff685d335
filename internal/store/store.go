// Package store holds the authoritative in-memory expense collection and keeps
// it synchronized with a durable key-value backend.
//
// Every mutation writes the whole collection through to the backend before
// returning. If that write fails the mutation is undone, so memory never runs
// ahead of what is stored.
package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"tally/internal/core"
	"tally/internal/kv"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "expenses"

const maxIDAttempts = 3

// Backend is the durable storage the store reads once and writes after every
// mutation.
type Backend interface {
	kv.Reader
	kv.Writer
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

type Store struct {
	mu      sync.Mutex
	backend Backend
	key     string
	now     func() time.Time
	newID   func() string
	items   []core.Expense
}

// New returns an empty store. Call Load to read the persisted collection.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads the persisted collection.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := New(backend, opts...)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory collection with the persisted one. A missing
// or empty entry loads as an empty collection; malformed content fails with
// core.ErrDeserialization and leaves the current collection untouched.
func (s *Store) Load(ctx context.Context) ([]core.Expense, error) {
	blob, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	var items []core.Expense
	if ok {
		items, err = Decode(blob)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	slog.DebugContext(ctx, "Expenses loaded", "key", s.key, "count", len(items))
	return slices.Clone(items), nil
}

// Add records a new expense with a fresh id and the current time. Neither
// the category nor the sign of amount is checked.
func (s *Store) Add(ctx context.Context, description string, amount float64, category core.Category) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:          id,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        s.now().UTC().Truncate(time.Millisecond),
	}

	prev := s.items
	s.items = append(slices.Clip(prev), e)
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return core.Expense{}, err
	}
	return e, nil
}

// AddFromInput coerces a raw amount string before adding.
func (s *Store) AddFromInput(ctx context.Context, description, amount, category string) (core.Expense, error) {
	v, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	return s.Add(ctx, description, v, core.Category(category))
}

// Update merges p over the expense with the given id. An unknown id is a
// no-op. An invalid category in p is rejected before anything changes.
func (s *Store) Update(ctx context.Context, id string, p core.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		slog.DebugContext(ctx, "Update skipped, unknown expense", "id", id)
		return nil
	}

	prev := s.items
	s.items = slices.Clone(prev)
	s.items[i] = p.Apply(prev[i])
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// Remove deletes the expense with the given id. An unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		slog.DebugContext(ctx, "Remove skipped, unknown expense", "id", id)
		return nil
	}

	prev := s.items
	s.items = slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// Get returns the expense with the given id.
func (s *Store) Get(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return core.Expense{}, false
}

// Len returns the number of stored expenses.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Filter returns every expense for core.FilterAll, otherwise those whose
// category matches exactly.
func (s *Store) Filter(category string) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category == core.FilterAll {
		return slices.Clone(s.items)
	}
	out := make([]core.Expense, 0)
	for _, e := range s.items {
		if string(e.Category) == category {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of expenses.
func Total(expenses []core.Expense) float64 {
	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return core.Sum(amounts...)
}

// CategoryBreakdown reports count and total per known category. Categories
// whose total is not positive are left out entirely.
func (s *Store) CategoryBreakdown() map[core.Category]core.CategoryStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[core.Category][]core.Expense)
	for _, e := range s.items {
		grouped[e.Category] = append(grouped[e.Category], e)
	}

	stats := make(map[core.Category]core.CategoryStat)
	for _, c := range core.Categories() {
		total := Total(grouped[c])
		if total > 0 {
			stats[c] = core.CategoryStat{Category: c, Count: len(grouped[c]), Total: total}
		}
	}
	return stats
}

// RankedBreakdown returns the breakdown ordered by total, largest first.
// Ties keep category order.
func (s *Store) RankedBreakdown() []core.CategoryStat {
	stats := s.CategoryBreakdown()
	out := make([]core.CategoryStat, 0, len(stats))
	for _, c := range core.Categories() {
		if st, ok := stats[c]; ok {
			out = append(out, st)
		}
	}
	slices.SortStableFunc(out, func(a, b core.CategoryStat) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return out
}

// Sorted returns a copy of expenses ordered by date, newest first.
func Sorted(expenses []core.Expense) []core.Expense {
	out := slices.Clone(expenses)
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// persist writes the whole collection. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	blob, err := Encode(s.items)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	if err := s.backend.Set(ctx, s.key, blob); err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	slog.DebugContext(ctx, "Expenses persisted", "key", s.key, "count", len(s.items))
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(e core.Expense) bool { return e.ID == id })
}

func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts", maxIDAttempts)
}
