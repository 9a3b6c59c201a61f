package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListenStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- listen(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listen did not return after cancel")
	}
}

func TestListenReportsBindError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1"}
	err := listen(context.Background(), srv)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range []string{serveCmd().Name, booksCmd().Name, migrateCmd().Name} {
		names[cmd] = true
	}
	assert.Equal(t, map[string]bool{"serve": true, "books": true, "migrate": true}, names)
}
