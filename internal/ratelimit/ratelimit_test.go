package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/ratelimit"
)

func TestAllow_EnforcesBurst(t *testing.T) {
	krl := ratelimit.New(1, 3)
	defer krl.Stop()

	require.True(t, krl.Allow("10.0.0.1"))
	require.True(t, krl.Allow("10.0.0.1"))
	require.True(t, krl.Allow("10.0.0.1"))
	require.False(t, krl.Allow("10.0.0.1"), "fourth request exceeds the burst")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := ratelimit.New(1, 1)
	defer krl.Stop()

	require.True(t, krl.Allow("10.0.0.1"))
	require.False(t, krl.Allow("10.0.0.1"))
	require.True(t, krl.Allow("10.0.0.2"), "a different client has its own bucket")
}

func TestStop_IsIdempotent(t *testing.T) {
	krl := ratelimit.New(1, 1)
	krl.Stop()
	krl.Stop()
}
