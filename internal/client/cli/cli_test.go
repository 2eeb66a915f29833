package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/orgsync/internal/client/api"
	"github.com/iudanet/orgsync/internal/client/auth"
	"github.com/iudanet/orgsync/internal/client/health"
	"github.com/iudanet/orgsync/internal/client/queue"
	"github.com/iudanet/orgsync/internal/client/scheduler"
	"github.com/iudanet/orgsync/internal/client/storage/memory"
	"github.com/iudanet/orgsync/internal/client/store"
	syncclient "github.com/iudanet/orgsync/internal/client/sync"
)

func newTestCli(t *testing.T, mockAPI *httpClient.ClientAPIMock) (*Cli, *bytes.Buffer) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	st := memory.New()

	stateStore := store.NewService(st, logger)
	stateStore.SetClock(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})
	require.NoError(t, stateStore.Load(context.Background()))

	authService := auth.NewService(mockAPI, st, logger)
	recorder := health.NewRecorder(st, logger)
	syncService := syncclient.NewService(mockAPI, stateStore, recorder, logger)
	q := queue.NewService(st, logger)
	sched := scheduler.New(scheduler.DefaultConfig(), syncService, authService, stateStore, st, q, logger)

	c := New(stateStore, authService, syncService, sched, q, recorder, func() bool { return false })
	out := &bytes.Buffer{}
	c.SetOutput(out)
	return c, out
}

func TestRunAdd_And_List(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"tasks", "title=Buy milk", "area=home"}))
	assert.Contains(t, out.String(), "✓ Added to tasks")

	out.Reset()
	require.NoError(t, c.Run(ctx, "list", []string{"tasks"}))
	assert.Contains(t, out.String(), "Buy milk")
	assert.Contains(t, out.String(), "home")
}

func TestRunAdd_BadArgs(t *testing.T) {
	c, _ := newTestCli(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	assert.Error(t, c.Run(ctx, "add", []string{"tasks"}))
	assert.Error(t, c.Run(ctx, "add", []string{"tasks", "notakeyvalue"}))
}

func TestRunDelete(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "add", []string{"tasks", "title=Temp"}))
	listOut := &bytes.Buffer{}
	c.SetOutput(listOut)
	require.NoError(t, c.Run(ctx, "list", []string{"tasks"}))

	// Выдергиваем id из вывода list
	lines := strings.Split(listOut.String(), "\n")
	var id string
	for _, line := range lines {
		if strings.HasPrefix(line, "1. ") {
			id = strings.TrimPrefix(line, "1. ")
			break
		}
	}
	require.NotEmpty(t, id)

	c.SetOutput(out)
	require.NoError(t, c.Run(ctx, "delete", []string{"tasks", id}))

	out.Reset()
	require.NoError(t, c.Run(ctx, "list", []string{"tasks"}))
	assert.Contains(t, out.String(), "No records")
}

func TestRunTrack(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "track", []string{"2024-03-01", "weight", "71.5"}))
	assert.Contains(t, out.String(), "2024-03-01: weight = 71.5")

	assert.Error(t, c.Run(ctx, "track", []string{"bad-date", "weight", "71.5"}))
}

func TestRunConflicts_Empty(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})

	require.NoError(t, c.Run(context.Background(), "conflicts", nil))
	assert.Contains(t, out.String(), "No conflicts recorded")
}

func TestRunQueue_ShowAndClear(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	_, err := c.queue.Enqueue(ctx, "reminder", []byte("{}"))
	require.NoError(t, err)

	require.NoError(t, c.Run(ctx, "queue", nil))
	assert.Contains(t, out.String(), "1 queued operation(s)")
	assert.Contains(t, out.String(), "reminder")

	out.Reset()
	require.NoError(t, c.Run(ctx, "queue", []string{"clear"}))
	assert.Contains(t, out.String(), "cleared")
}

func TestRunHealth_Empty(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})

	require.NoError(t, c.Run(context.Background(), "health", nil))
	assert.Contains(t, out.String(), "No sync activity recorded yet")
}

func TestRunStatus_NotAuthenticated(t *testing.T) {
	c, out := newTestCli(t, &httpClient.ClientAPIMock{})

	require.NoError(t, c.Run(context.Background(), "status", nil))
	assert.Contains(t, out.String(), "not authenticated")
}

func TestRun_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(t, &httpClient.ClientAPIMock{})
	assert.Error(t, c.Run(context.Background(), "frobnicate", nil))
}
