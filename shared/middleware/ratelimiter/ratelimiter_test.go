package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	t.Run("spends capacity then blocks", func(t *testing.T) {
		l := New(1, 2, time.Minute)
		defer l.Stop()
		now := time.Now()
		l.now = func() time.Time { return now }

		assert.True(t, l.Allow("ip1"))
		assert.True(t, l.Allow("ip1"))
		assert.False(t, l.Allow("ip1"))
	})

	t.Run("refills over time", func(t *testing.T) {
		l := New(1, 1, time.Minute)
		defer l.Stop()
		now := time.Now()
		l.now = func() time.Time { return now }

		assert.True(t, l.Allow("ip1"))
		assert.False(t, l.Allow("ip1"))

		now = now.Add(1500 * time.Millisecond)
		assert.True(t, l.Allow("ip1"))
	})

	t.Run("identities are independent", func(t *testing.T) {
		l := New(0.1, 1, time.Minute)
		defer l.Stop()

		assert.True(t, l.Allow("ip1"))
		assert.False(t, l.Allow("ip1"))
		assert.True(t, l.Allow("ip2"))
	})

	t.Run("idle buckets expire", func(t *testing.T) {
		l := New(1, 1, 20*time.Millisecond)
		defer l.Stop()

		l.Allow("ip1")
		assert.Equal(t, 1, l.size())
		assert.Eventually(t, func() bool { return l.size() == 0 }, time.Second, 10*time.Millisecond)
	})
}
