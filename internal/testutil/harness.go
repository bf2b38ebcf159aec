// Package testutil provides shared helpers for loading hardware descriptions
// in tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/hcl"
	"github.com/vk/socgen/internal/registry"
	"github.com/vk/socgen/internal/source"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug-level text logger that writes
// into the returned buffer.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// WriteFiles writes files, keyed by relative path, into a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Fixture is a loaded description with its populated registry.
type Fixture struct {
	Ctx      context.Context
	Logs     *SafeBuffer
	Library  *hcl.Library
	Registry *registry.Registry
}

// Load parses the given sources and populates a registry from them, failing
// the test on any error.
func Load(t *testing.T, sources ...string) *Fixture {
	t.Helper()
	f, err := TryLoad(t, sources...)
	require.NoError(t, err)
	return f
}

// TryLoad is Load that returns the error instead of failing.
func TryLoad(t *testing.T, sources ...string) (*Fixture, error) {
	t.Helper()
	ctx, logs := Context(t)

	srcs := make([]hcl.Source, len(sources))
	for i, s := range sources {
		srcs[i] = hcl.Source{Filename: filepath.Join("fixture", "src"+string(rune('a'+i))+".hcl"), Data: []byte(s)}
	}
	lib, err := hcl.NewLoader().LoadSources(ctx, srcs...)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	if err := reg.Populate(ctx, lib); err != nil {
		return nil, err
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	return &Fixture{Ctx: ctx, Logs: logs, Library: lib, Registry: reg}, nil
}

// Elaborate elaborates a definition with default parameters as the root of
// a tree.
func (f *Fixture) Elaborate(t *testing.T, definition string) source.Node {
	t.Helper()
	n, err := f.Library.Elaborate(f.Ctx, definition, definition, nil)
	require.NoError(t, err)
	return n
}
