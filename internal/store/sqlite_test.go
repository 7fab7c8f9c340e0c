package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *RunLog {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "seedline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	require.NoError(t, log.Migrate(context.Background()))
	return log
}

func TestRunLogCompleteRun(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Begin(ctx, "resolve-teams")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	counts := Counts{RecordsIn: 120, RecordsOut: 120, Unresolved: 3}
	require.NoError(t, log.Finish(ctx, id, counts, nil))

	runs, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "resolve-teams", run.Stage)
	assert.Equal(t, "complete", run.Status)
	assert.Equal(t, 120, run.RecordsIn)
	assert.Equal(t, 120, run.RecordsOut)
	assert.Equal(t, 3, run.Unresolved)
	assert.Empty(t, run.Error)
	assert.NotNil(t, run.FinishedAt)
}

func TestRunLogFailedRun(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Begin(ctx, "attach-weights")
	require.NoError(t, err)

	stageErr := eris.New("conflicting weigh-ins at \"Winter Open\"")
	require.NoError(t, log.Finish(ctx, id, Counts{RecordsIn: 50}, stageErr))

	runs, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Contains(t, runs[0].Error, "conflicting weigh-ins")
	assert.Equal(t, 50, runs[0].RecordsIn)
}

func TestRunLogRecentOrderAndLimit(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	for _, stage := range []string{"resolve-teams", "resolve-athletes", "seeding"} {
		id, err := log.Begin(ctx, stage)
		require.NoError(t, err)
		require.NoError(t, log.Finish(ctx, id, Counts{}, nil))
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "seeding", runs[0].Stage)
	assert.Equal(t, "resolve-athletes", runs[1].Stage)
}

func TestRunLogUnfinishedRunStaysRunning(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	_, err := log.Begin(ctx, "seeding")
	require.NoError(t, err)

	runs, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "running", runs[0].Status)
	assert.Nil(t, runs[0].FinishedAt)
}
