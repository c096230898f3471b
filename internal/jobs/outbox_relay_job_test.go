package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRelayHandler struct{ mock.Mock }

func (m *MockRelayHandler) Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RelayResult), args.Error(1)
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (f fakeJob) Start() error {
	*f.log = append(*f.log, "start "+f.name)
	return f.startErr
}

func (f fakeJob) Stop() {
	*f.log = append(*f.log, "stop "+f.name)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutboxRelayJob_Run(t *testing.T) {
	handler := new(MockRelayHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RelayOutboxCommand) bool {
		return cmd.BatchSize() == 25
	})).Return(commands.RelayResult{Published: 3}, nil).Once()

	job := jobs.NewOutboxRelayJob(handler, "", 25, discardLogger())
	job.Run()

	handler.AssertExpectations(t)
}

func TestOutboxRelayJob_Run_HandlerErrorIsSwallowed(t *testing.T) {
	handler := new(MockRelayHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.RelayResult{}, errors.New("db down")).Once()

	job := jobs.NewOutboxRelayJob(handler, "", 0, discardLogger())
	assert.NotPanics(t, job.Run)
	handler.AssertExpectations(t)
}

func TestOutboxRelayJob_Start_InvalidSchedule(t *testing.T) {
	job := jobs.NewOutboxRelayJob(new(MockRelayHandler), "not a schedule", 10, discardLogger())
	require.Error(t, job.Start())
}

func TestOutboxRelayJob_StartStop(t *testing.T) {
	job := jobs.NewOutboxRelayJob(new(MockRelayHandler), "0 0 0 1 1 *", 10, discardLogger())
	require.NoError(t, job.Start())
	job.Stop()
}

func TestJobManager_StartAll_StopsStartedJobsOnFailure(t *testing.T) {
	var log []string
	jm := jobs.NewJobManager(
		fakeJob{name: "a", log: &log},
		fakeJob{name: "b", log: &log},
		fakeJob{name: "c", startErr: errors.New("boom"), log: &log},
	)

	require.Error(t, jm.StartAll())
	assert.Equal(t, []string{"start a", "start b", "start c", "stop b", "stop a"}, log)
}

func TestJobManager_StopAll(t *testing.T) {
	var log []string
	jm := jobs.NewJobManager(fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})

	require.NoError(t, jm.StartAll())
	jm.StopAll()
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}
