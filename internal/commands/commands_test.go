package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/kv/memory"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/store"
)

// harness shares one in-memory backend across command invocations, the way
// a file or database persists between runs of the binary.
type harness struct {
	backend *memory.Store
	now     time.Time
}

func newHarness() *harness {
	return &harness{
		backend: memory.New(),
		now:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (h *harness) tick() time.Time {
	h.now = h.now.Add(time.Minute)
	return h.now
}

func (h *harness) open(ctx context.Context) (*cli.App, error) {
	st, err := store.Open(ctx, h.backend, store.WithClock(h.tick))
	if err != nil {
		return nil, err
	}
	cfg := &config.Config{Backend: "memory", StorageKey: store.DefaultKey}
	return cli.NewApp(cfg, log.New(log.DefaultConfig()), services.NewExpenseService(st, nil)), nil
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(h.open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) add(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, "", append([]string{"add"}, args...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return lines[len(lines)-1]
}

func TestAddListStats(t *testing.T) {
	h := newHarness()
	coffee := h.add(t, "-d", "Coffee", "-a", "4.50", "-c", "food")
	h.add(t, "--description", "Bus", "--amount", "2", "--category", "transport")

	out, err := h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "Bus")
	assert.Contains(t, out, "$4.50")
	assert.Contains(t, out, "Food & Dining")
	assert.Less(t, strings.Index(out, "Bus"), strings.Index(out, "Coffee"), "newest first")

	out, err = h.run(t, "", "list", "-c", "food")
	require.NoError(t, err)
	assert.Contains(t, out, coffee)
	assert.NotContains(t, out, "Bus")

	out, err = h.run(t, "", "stats", "-c", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "$6.50")
	assert.Contains(t, out, "Filtered (food):")
	assert.Contains(t, out, "$4.50")
	assert.Contains(t, out, "2 expenses")
	assert.Contains(t, out, "Transportation")
}

func TestAddRejectsBadAmount(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, "", "add", "-d", "Coffee", "-a", "free")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestAddRequiresFlags(t *testing.T) {
	h := newHarness()
	_, err := h.run(t, "", "add", "-a", "3")
	assert.Error(t, err)
}

func TestEmptyStates(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses yet")

	out, err = h.run(t, "", "list", "-c", "healthcare")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found in the Healthcare category.")

	out, err = h.run(t, "", "list", "-c", "bogus")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found in the selected category.")

	out, err = h.run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No data available")
	assert.Contains(t, out, "0 expenses")
}

func TestEdit(t *testing.T) {
	h := newHarness()
	id := h.add(t, "-d", "Coffee", "-a", "4.50", "-c", "food")

	out, err := h.run(t, "", "edit", id, "-a", "5.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "$5.25")

	_, err = h.run(t, "", "edit", id, "-c", "bogus")
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = h.run(t, "", "edit", "missing", "-d", "x")
	assert.ErrorIs(t, err, core.ErrNotFound)

	out, err = h.run(t, "", "list", "-c", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "$5.25")
}

func TestEditWithoutChanges(t *testing.T) {
	h := newHarness()
	id := h.add(t, "-d", "Coffee", "-a", "4.50", "-c", "food")

	out, err := h.run(t, "", "edit", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to change.")
	assert.NotContains(t, out, "Updated")

	// Blank description and zero amount both keep the current values.
	out, err = h.run(t, "", "edit", id, "-d", " ", "-a", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to change.")
	assert.NotContains(t, out, "Updated")
}

func TestDelete(t *testing.T) {
	h := newHarness()
	id := h.add(t, "-d", "Coffee", "-a", "4.50", "-c", "food")

	out, err := h.run(t, "n\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = h.run(t, "y\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	_, err = h.run(t, "", "delete", "--yes", id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCategories(t *testing.T) {
	out, err := newHarness().run(t, "", "categories")
	require.NoError(t, err)
	for _, c := range core.Categories() {
		assert.Contains(t, out, c.Label())
	}
}

func TestTailRequiresBroker(t *testing.T) {
	_, err := newHarness().run(t, "", "tail")
	assert.ErrorContains(t, err, "AMQP_URL")
}

func TestEventClientReusesBootstrapConnection(t *testing.T) {
	h := newHarness()
	app, err := h.open(context.Background())
	require.NoError(t, err)
	app.AMQP = &amqp.Client{}

	client, release, err := eventClient(context.Background(), app, 1)
	require.NoError(t, err)
	assert.Same(t, app.AMQP, client)
	assert.NoError(t, release())
}

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return log.New(cfg)
}

func TestPrintEventSurvivesUnreadableStore(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	st, err := store.Open(ctx, backend)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, store.DefaultKey, "{oops"))

	var logs bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &logs
	logger := log.New(cfg).WithComponent(log.ComponentAMQP)

	var out bytes.Buffer
	for i := 0; i < 3; i++ {
		out.Reset()
		err := printEvent(ctx, &out, st, logger, amqp.NewExpenseEvent(amqp.EventUpdated, "abc"))
		require.NoError(t, err)
		assert.Contains(t, out.String(), "expense.updated")
		assert.Contains(t, out.String(), "abc")
	}
	assert.Contains(t, logs.String(), "Failed to reload expenses")
	assert.Contains(t, logs.String(), "component=amqp")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("yes\n"), &out, "Sure?"))
	assert.True(t, confirm(strings.NewReader("Y"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Sure?"))
	assert.Contains(t, out.String(), "Sure? [y/N]: ")
}

func TestRenderListFormatting(t *testing.T) {
	var out bytes.Buffer
	ts := time.Date(2025, 1, 15, 14, 5, 0, 0, time.UTC)
	err := renderList(&out, core.FilterAll, []core.Expense{
		{ID: "abc", Description: "Rent", Amount: 1234.5, Category: core.Utilities, Date: ts},
	}, time.UTC)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Jan 15, 2025, 02:05 PM")
	assert.Contains(t, out.String(), "$1,234.50")
	assert.Contains(t, out.String(), "💡 Utilities")
}

func TestPrintEvent(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	st, err := store.Open(ctx, backend)
	require.NoError(t, err)

	// Written by another process after st was opened.
	other, err := store.Open(ctx, backend)
	require.NoError(t, err)
	e, err := other.Add(ctx, "Coffee", 4.5, core.Food)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printEvent(ctx, &out, st, quietLogger(), amqp.NewExpenseEvent(amqp.EventCreated, e.ID)))
	assert.Contains(t, out.String(), "expense.created")
	assert.Contains(t, out.String(), "Coffee $4.50")

	out.Reset()
	require.NoError(t, printEvent(ctx, &out, st, quietLogger(), amqp.NewExpenseEvent(amqp.EventDeleted, "gone")))
	assert.Contains(t, out.String(), "expense.deleted")
	assert.Contains(t, out.String(), "gone")
}
