package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(2, time.Minute)
	base := time.Date(2026, 1, 1, 10, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return base }

	r1, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, r1.Allowed)
	assert.Equal(t, int64(1), r1.Remaining)

	r2, _ := l.Allow(ctx, "1.2.3.4")
	assert.True(t, r2.Allowed)
	assert.Equal(t, int64(0), r2.Remaining)

	r3, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, r3.Allowed)
	assert.Equal(t, 50*time.Second, r3.RetryAfter)

	// Otra key no comparte ventana
	other, _ := l.Allow(ctx, "5.6.7.8")
	assert.True(t, other.Allowed)

	// Nueva ventana
	l.now = func() time.Time { return base.Add(time.Minute) }
	r4, _ := l.Allow(ctx, "1.2.3.4")
	assert.True(t, r4.Allowed)
	assert.Equal(t, int64(1), r4.CurrentHits)
}
