package fetchutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n b\t\tc  "))
	assert.Equal(t, "", CleanText("   "))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Build APIs in Go", StripHTML("<p>Build <b>APIs</b> in Go</p>"))
	assert.Equal(t, "plain text stays", StripHTML("plain  text\nstays"))
	assert.Equal(t, "", StripHTML(""))
}

func TestHostLimiter_PerHost(t *testing.T) {
	// one request per second with burst 1: a second hit on the same host
	// must wait, a different host must not
	hl := NewHostLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, hl.WaitURL(ctx, "https://api.example.com/a"))

	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://other.example.com/b"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := hl.WaitURL(ctx2, "https://api.example.com/c")
	assert.Error(t, err) // bucket empty, deadline shorter than refill
}

func TestHostLimiter_UnparseableHostStillLimited(t *testing.T) {
	hl := NewHostLimiter(100, 1)
	require.NoError(t, hl.WaitURL(context.Background(), "not a url"))
}
