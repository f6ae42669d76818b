package stopwatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scoreboard/internal/dependencies/mocks"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/testutil"
)

type countingTarget struct {
	ticks atomic.Int64
	err   error
}

func (c *countingTarget) Tick(context.Context, model.BoardCode) (model.Stopwatch, error) {
	c.ticks.Add(1)
	return model.Stopwatch{}, c.err
}

func newTestClock() *mocks.MockClock {
	return mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
}

func TestRunnerTicksUntilStopped(t *testing.T) {
	clk := newTestClock()
	target := &countingTarget{}

	r := StartRunner("ABC123", target, clk, 0, testutil.NopLogger())
	tickers := clk.Tickers()
	require.Len(t, tickers, 1)
	assert.Equal(t, DefaultTickInterval, tickers[0].Interval)

	for i := 0; i < 3; i++ {
		require.True(t, tickers[0].Tick(clk.Now()))
	}
	assert.Eventually(t, func() bool { return target.ticks.Load() == 3 }, time.Second, time.Millisecond)

	r.Stop()
	assert.True(t, tickers[0].Stopped())

	assert.False(t, tickers[0].Tick(clk.Now()))
	assert.Equal(t, int64(3), target.ticks.Load())
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	clk := newTestClock()
	r := StartRunner("ABC123", &countingTarget{}, clk, time.Second, testutil.NopLogger())

	r.Stop()
	assert.NotPanics(t, r.Stop)

	select {
	case <-r.Exited():
	default:
		t.Fatal("runner did not exit")
	}
}

func TestRunnerExitsWhenBoardDisappears(t *testing.T) {
	clk := newTestClock()
	target := &countingTarget{err: model.ErrBoardNotFound}
	r := StartRunner("ABC123", target, clk, time.Second, testutil.NopLogger())

	require.True(t, clk.Tickers()[0].Tick(clk.Now()))

	select {
	case <-r.Exited():
	case <-time.After(time.Second):
		t.Fatal("runner kept running after board was removed")
	}
	assert.True(t, clk.Tickers()[0].Stopped())
	r.Stop()
}

func TestRunnerDrivesStopwatch(t *testing.T) {
	clk := newTestClock()
	random := mocks.NewMockRandom()
	storage := memory.New()
	logger := testutil.NopLogger()
	boardController := board.NewController(storage, clk, random, logger)
	service := New(storage, boardController, clk, logger)
	ctx := context.Background()

	random.QueueString("ABC123")
	b, err := boardController.CreateBoard(ctx)
	require.NoError(t, err)
	_, err = service.Start(ctx, b.Code)
	require.NoError(t, err)

	r := StartRunner(b.Code, service, clk, 100*time.Millisecond, logger)
	defer r.Stop()

	for i := 0; i < 12; i++ {
		clk.AdvanceAndTick(100 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		sw, _ := service.Get(ctx, b.Code)
		return sw.ElapsedMilliseconds() == 1200
	}, time.Second, time.Millisecond)
}

func TestRunnerManagerMountsOncePerBoard(t *testing.T) {
	clk := newTestClock()
	m := NewRunnerManager(&countingTarget{}, clk, time.Second, nil, testutil.NopLogger())

	assert.True(t, m.Mount("ABC123"))
	assert.False(t, m.Mount("ABC123"))
	assert.True(t, m.Mount("XYZ789"))
	assert.Equal(t, 2, m.Count())
	assert.Len(t, clk.Tickers(), 2)

	m.Unmount("ABC123")
	assert.False(t, m.Mounted("ABC123"))
	assert.True(t, clk.Tickers()[0].Stopped())

	// Unmounting twice is harmless
	m.Unmount("ABC123")

	m.UnmountAll()
	assert.Equal(t, 0, m.Count())
	assert.True(t, clk.Tickers()[1].Stopped())
}

func TestRunnerManagerReplacesExitedRunner(t *testing.T) {
	clk := newTestClock()
	target := &countingTarget{err: model.ErrBoardNotFound}
	m := NewRunnerManager(target, clk, time.Second, nil, testutil.NopLogger())

	require.True(t, m.Mount("ABC123"))
	require.True(t, clk.Tickers()[0].Tick(clk.Now()))

	// Mount reports false until the old runner has exited
	assert.Eventually(t, func() bool { return m.Mount("ABC123") }, time.Second, time.Millisecond)
	assert.Len(t, clk.Tickers(), 2)
	m.UnmountAll()
}
