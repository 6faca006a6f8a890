package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinsley/forwardgl/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinEffects(t *testing.T) {
	for name, want := range map[string]string{
		"none":      shader.CopyEffect,
		"copy":      shader.CopyEffect,
		"grayscale": shader.GrayscaleEffect,
	} {
		e, err := newEffectSource(name)
		require.NoError(t, err)
		assert.Equal(t, want, e.current, name)
		e.poll()
		e.Close()
	}
}

func TestEffectFileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.glsl")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))
	e, err := newEffectSource(path)
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, "first", e.current)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
	require.Eventually(t, func() bool {
		e.poll()
		return e.current == "second"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestEffectFailureReverts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.glsl")
	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))
	e, err := newEffectSource(path)
	require.NoError(t, err)
	defer e.Close()

	e.failed(errors.New("compile error"))
	assert.Equal(t, shader.CopyEffect, e.current)
	e.succeeded()
	assert.Equal(t, shader.CopyEffect, e.lastGood)
}

func TestMissingEffectFile(t *testing.T) {
	_, err := newEffectSource(filepath.Join(t.TempDir(), "missing.glsl"))
	assert.Error(t, err)
}

func TestPollReturnsAfterWatcherClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.glsl")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))
	e, err := newEffectSource(path)
	require.NoError(t, err)
	e.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			e.poll()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poll kept running on a closed watcher")
	}
	assert.Equal(t, "first", e.current)
}
