package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionGuard_ExclusivePerInvitation(t *testing.T) {
	g := NewActionGuard()

	require.True(t, g.Begin("inv-1", "resend"))
	assert.False(t, g.Begin("inv-1", "revoke"), "second action on same invitation should be rejected")
	assert.True(t, g.Begin("inv-2", "revoke"), "different invitation should be unaffected")

	action, busy := g.InFlight("inv-1")
	require.True(t, busy)
	assert.Equal(t, "resend", action)

	g.End("inv-1")
	assert.True(t, g.Begin("inv-1", "revoke"), "claim should be reusable after End")
}

func TestActionGuard_ConcurrentBegins(t *testing.T) {
	g := NewActionGuard()

	const attempts = 64
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Begin("inv-1", "resend") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var won int
	for range wins {
		won++
	}
	assert.Equal(t, 1, won, "exactly one concurrent Begin should win")
}
