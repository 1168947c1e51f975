package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerTimeouts(t *testing.T) {
	app := newTestApp(t, func(cfg *serverConfig) { cfg.port = 4123 })
	srv := app.newServer()

	assert.Equal(t, ":4123", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
	assert.NotNil(t, srv.ErrorLog)
}

func TestServeClosesStoreOnShutdown(t *testing.T) {
	app := newTestApp(t, nil)
	closes := 0
	app.closeStore = func() { closes++ }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Equal(t, 1, closes)

	app.releaseStore()
	assert.Equal(t, 1, closes)
}
