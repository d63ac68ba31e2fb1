package inspector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// newTestFacades builds both facades over one shared mock, bypassing the HTTP
// transport.
func newTestFacades(mock *mockProvider) (*Inspector, *AsyncInspector) {
	return &Inspector{core: newTestCore(mock)}, &AsyncInspector{core: newTestCore(mock)}
}

func TestTaskWait(t *testing.T) {
	task := runTask(func() (int, error) {
		return 42, nil
	})

	got, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// Wait is repeatable; the result is fixed.
	got, err = task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestTaskWaitCancelled(t *testing.T) {
	block := make(chan struct{})
	task := runTask(func() (int, error) {
		<-block
		return 1, nil
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskDone(t *testing.T) {
	task := runTask(func() (string, error) {
		return "done", nil
	})

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not complete")
	}

	got, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

// Both facades share one core, so results and error kinds must be identical
// for the same inputs.
func TestFacadeParityList(t *testing.T) {
	blocking, suspending := newTestFacades(&mockProvider{sandboxes: testSandboxes()})
	ctx := context.Background()

	fromSync, err := blocking.ListSandboxes(ctx, nil)
	require.NoError(t, err)

	fromAsync, err := suspending.ListSandboxes(ctx, nil).Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, fromSync, fromAsync)
}

func TestFacadeParityInfo(t *testing.T) {
	blocking, suspending := newTestFacades(&mockProvider{sandboxes: testSandboxes()})
	ctx := context.Background()

	fromSync, err := blocking.Info(ctx, "sb-2")
	require.NoError(t, err)

	fromAsync, err := suspending.Info(ctx, "sb-2").Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, fromSync, fromAsync)
}

func TestFacadeParityValidation(t *testing.T) {
	blocking, suspending := newTestFacades(&mockProvider{})
	ctx := context.Background()

	_, syncErr := blocking.Info(ctx, "")
	_, asyncErr := suspending.Info(ctx, "").Wait(ctx)

	var v1, v2 *ValidationError
	require.ErrorAs(t, syncErr, &v1)
	require.ErrorAs(t, asyncErr, &v2)
	assert.Equal(t, v1.Field, v2.Field)
}

func TestFacadeParityNotFound(t *testing.T) {
	blocking, suspending := newTestFacades(&mockProvider{})
	ctx := context.Background()

	_, syncErr := blocking.Info(ctx, "sb-missing")
	_, asyncErr := suspending.Info(ctx, "sb-missing").Wait(ctx)

	var n1, n2 *NotFoundError
	require.ErrorAs(t, syncErr, &n1)
	require.ErrorAs(t, asyncErr, &n2)
	assert.Equal(t, n1.SandboxID, n2.SandboxID)
}

func TestFacadeParityKillAllGate(t *testing.T) {
	mock := &mockProvider{sandboxes: testSandboxes()}
	blocking, suspending := newTestFacades(mock)
	ctx := context.Background()

	_, syncErr := blocking.KillAll(ctx, false)
	_, asyncErr := suspending.KillAll(ctx, false).Wait(ctx)

	var c1, c2 *ConfirmationRequiredError
	require.ErrorAs(t, syncErr, &c1)
	require.ErrorAs(t, asyncErr, &c2)
	assert.Empty(t, mock.killCalls)
}

func TestFacadeParityExec(t *testing.T) {
	result := &models.CommandResult{Stdout: "hi\n", ExitCode: 0}
	blocking, suspending := newTestFacades(&mockProvider{cmdResult: result})
	ctx := context.Background()

	fromSync, err := blocking.Exec(ctx, "sb-1", "echo hi", time.Minute)
	require.NoError(t, err)

	fromAsync, err := suspending.Exec(ctx, "sb-1", "echo hi", time.Minute).Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, fromSync, fromAsync)
}

func TestAsyncUpload(t *testing.T) {
	mock := &mockProvider{}
	_, suspending := newTestFacades(mock)
	ctx := context.Background()

	_, err := suspending.Upload(ctx, "sb-1", "/etc/app.conf", []byte("k=v")).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("k=v"), mock.written["/etc/app.conf"])
}

func TestAsyncOperationsStartImmediately(t *testing.T) {
	started := make(chan struct{})
	task := runTask(func() (struct{}, error) {
		close(started)
		return struct{}{}, nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("operation did not start before Wait")
	}
	_, err := task.Wait(context.Background())
	require.NoError(t, err)
}
