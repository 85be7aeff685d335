package amqp

import (
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

func errClosedForTest() error { return amqp091.ErrClosed }

func TestExpenseEventJSON(t *testing.T) {
	in := NewExpenseEvent(EventDeleted, "0192f0c4-7a3b-7c1d-9e2f-112233445566")
	data, err := in.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := ExpenseEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Type != in.Type || out.ID != in.ID || !out.Timestamp.Equal(in.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestExpenseEventFromJSONRejects(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"type":"expense.exploded","id":"a"}`,
		`{"type":"expense.created"}`,
	} {
		if _, err := ExpenseEventFromJSON([]byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}
