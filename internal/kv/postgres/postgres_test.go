package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgresql://u:p@h:5432/db", "postgres://u:p@h:5432/db?sslmode=disable"},
		{"postgres://h/db?application_name=x", "postgres://h/db?application_name=x&sslmode=disable"},
		{"postgres://h/db?sslmode=require", "postgres://h/db?sslmode=require"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), "input %q", tt.in)
	}
}

// Runs against a real server only when TALLY_TEST_DATABASE_URL is set.
func TestPostgresStoreIntegration(t *testing.T) {
	url := os.Getenv("TALLY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TALLY_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	key := fmt.Sprintf("tally-test-%d", time.Now().UnixNano())

	s, err := New(ctx, url)
	require.NoError(t, err)
	defer s.Close()
	defer s.pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key)

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, key, "[]"))
	require.NoError(t, s.Set(ctx, key, "[1]"))
	v, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1]", v)
}
