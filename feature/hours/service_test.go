package hours

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hour-sync/core/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	events []sync.DatabaseEvent
	err    error
}

func (s *fakeSource) Events(_ context.Context, _ int) ([]sync.DatabaseEvent, error) {
	return s.events, s.err
}

type fakeClient struct {
	remote      []sync.RemoteEvent
	fetchErr    error
	loginErr    error
	loginCalled bool
	closed      bool
}

func (c *fakeClient) Login(_ context.Context) error {
	c.loginCalled = true
	return c.loginErr
}

func (c *fakeClient) Close() { c.closed = true }

func (c *fakeClient) ExportPath() string { return "" }

func (c *fakeClient) FetchEvents(_ context.Context, _ int) ([]sync.RemoteEvent, error) {
	return c.remote, c.fetchErr
}

func (c *fakeClient) SubmitEvent(_ context.Context, _ sync.DatabaseEvent) (bool, error) {
	return false, nil
}

func newTestService(t *testing.T, source EventSource, client Client) (*Service, string) {
	t.Helper()
	outputDir := t.TempDir()
	cfg := Config{OutputDir: outputDir, TempDir: t.TempDir()}
	svc := NewService(source, client, newValidator(t), nil, zap.NewNop(), cfg)
	return svc, outputDir
}

func TestService_Run(t *testing.T) {
	t.Run("Dry run against matching remote", func(t *testing.T) {
		ev := validEvent("e1")
		client := &fakeClient{remote: []sync.RemoteEvent{{
			UserName:    ev.UserName,
			Project:     ev.Project,
			Activity:    ev.Activity,
			Hours:       ev.Hours,
			Description: sync.Marker(ev.ID) + " " + ev.Description,
			Date:        ev.Start,
		}}}
		svc, outputDir := newTestService(t, &fakeSource{events: []sync.DatabaseEvent{ev}}, client)

		stats, err := svc.Run(context.Background(), 2024, true)
		require.NoError(t, err)
		assert.Equal(t, sync.Stats{}, stats)
		assert.True(t, client.loginCalled)
		assert.True(t, client.closed)

		entries, err := os.ReadDir(outputDir)
		require.NoError(t, err)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.Len(t, names, 3) // db snapshot, remote snapshot, stats
	})

	t.Run("Unmatched event counts as would-add", func(t *testing.T) {
		svc, _ := newTestService(t,
			&fakeSource{events: []sync.DatabaseEvent{validEvent("e1")}},
			&fakeClient{})

		stats, err := svc.Run(context.Background(), 2024, true)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.WouldAdd)
	})

	t.Run("Validation failure aborts before login", func(t *testing.T) {
		bad := validEvent("e1")
		bad.Hours = bad.Hours.Neg()
		client := &fakeClient{}
		svc, _ := newTestService(t, &fakeSource{events: []sync.DatabaseEvent{bad}}, client)

		_, err := svc.Run(context.Background(), 2024, true)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.False(t, client.loginCalled)
		assert.True(t, client.closed, "client must be released even when the run never reaches login")
	})

	t.Run("Source error propagates", func(t *testing.T) {
		client := &fakeClient{}
		svc, _ := newTestService(t, &fakeSource{err: &RetrievalError{Year: 2024, Err: assert.AnError}}, client)

		_, err := svc.Run(context.Background(), 2024, true)

		var retrievalErr *RetrievalError
		assert.ErrorAs(t, err, &retrievalErr)
		assert.False(t, client.loginCalled)
		assert.True(t, client.closed, "client must be released even when the run never reaches login")
	})

	t.Run("Login error propagates and skips fetch", func(t *testing.T) {
		client := &fakeClient{loginErr: assert.AnError}
		svc, _ := newTestService(t, &fakeSource{events: []sync.DatabaseEvent{validEvent("e1")}}, client)

		_, err := svc.Run(context.Background(), 2024, true)
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, client.closed)
	})

	t.Run("Temp files are cleaned up", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeSource{}, &fakeClient{})
		leftover := filepath.Join(svc.cfg.TempDir, "export.xls")
		require.NoError(t, os.WriteFile(leftover, []byte("old"), 0o644))

		_, err := svc.Run(context.Background(), 2024, true)
		require.NoError(t, err)
		assert.NoFileExists(t, leftover)
	})
}
