//go:build !windows && !plan9 && !js
// +build !windows,!plan9,!js

package atexit

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 130, exitCode(unix.SIGINT))
	assert.Equal(t, 143, exitCode(unix.SIGTERM))
	assert.Equal(t, 130, exitCode(os.Interrupt))
	assert.Equal(t, 1, exitCode(fakeSignal{}))
}

type fakeSignal struct{}

func (fakeSignal) String() string { return "fake" }
func (fakeSignal) Signal()        {}

// TestSignal must be the only test that calls Run as exitOnce can't
// be reset.
func TestSignal(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			calls = append(calls, name)
			mu.Unlock()
		}
	}

	exited := make(chan int, 1)
	exit = func(code int) { exited <- code }
	defer func() { exit = os.Exit }()

	Register(record("shutdown"))
	handle := Register(record("unregistered"))
	Unregister(handle)
	assert.False(t, Signalled())
	assert.Equal(t, 0, ExitCode())

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGTERM))
	select {
	case code := <-exited:
		assert.Equal(t, 143, code)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for signal handler")
	}

	assert.True(t, Signalled())
	assert.Equal(t, 143, ExitCode())
	mu.Lock()
	assert.Equal(t, []string{"shutdown"}, calls)
	mu.Unlock()

	// Registering after Run is a no-op
	assert.Nil(t, Register(record("late")))
}
