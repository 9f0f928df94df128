package flightlog

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flightlog/testutil"
	"github.com/hupe1980/flightlog/volume"
)

// stubSensor returns fixed readings so file content is predictable.
type stubSensor struct{}

func (stubSensor) Fields() []string { return []string{"dummy_sensor1", "dummy_sensor2"} }
func (stubSensor) Sample() []float64 { return []float64{1, 2.5} }

// jitterSensor burns virtual processing time on every jitterEvery-th
// sample, exceeding the sampling interval to force late iterations.
type jitterSensor struct {
	clk         *testutil.ManualClock
	jitter      time.Duration
	jitterEvery int
	n           int
}

func (s *jitterSensor) Fields() []string { return []string{"dummy_sensor1", "dummy_sensor2"} }

func (s *jitterSensor) Sample() []float64 {
	s.n++
	if s.jitterEvery > 0 && s.n%s.jitterEvery == 0 {
		s.clk.Advance(s.jitter)
	}
	return []float64{1, 2.5}
}

// records splits committed file content into header and data rows.
func records(t *testing.T, content []byte) (header string, rows []string) {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.NotEmpty(t, lines)
	return lines[0], lines[1:]
}

func TestEndToEndPowerLoss(t *testing.T) {
	vol := volume.NewMem()
	clk := testutil.NewManualClock(time.Unix(0, 0))
	metrics := &BasicMetricsCollector{}

	rec, err := New(vol,
		WithClock(clk),
		WithSensor(stubSensor{}),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	require.Equal(t, "/flight_log_001.csv", rec.FileName())
	assert.Equal(t, StateIdle, rec.State())

	// Power collapses between the 25th and 26th sampling deadline.
	clk.AfterFunc(1275*time.Millisecond, rec.Shutdown)

	require.NoError(t, rec.Run(context.Background()))
	assert.Equal(t, StateHalted, rec.State())

	header, rows := records(t, vol.Committed(rec.FileName()))
	assert.Equal(t, "timestamp_ms,dummy_sensor1,dummy_sensor2", header)
	require.Len(t, rows, 25)
	for i, row := range rows {
		assert.Equal(t, strconv.Itoa((i+1)*50)+",1,2.5", row)
	}

	// Initial open, the header barrier's reopen, one loop barrier at 1s.
	assert.Equal(t, 3, vol.OpenCount(rec.FileName()))
	assert.EqualValues(t, 25, metrics.SampleCount.Load())
	assert.EqualValues(t, 1, metrics.BarrierCount.Load())
	assert.EqualValues(t, 0, metrics.DroppedTicks.Load())

	// Terminate already committed everything; nothing dangles.
	assert.Equal(t, vol.Contents(rec.FileName()), vol.Committed(rec.FileName()))
}

func TestNoDriftUnderJitter(t *testing.T) {
	vol := volume.NewMem()
	clk := testutil.NewManualClock(time.Unix(0, 0))
	sensor := &jitterSensor{clk: clk, jitter: 60 * time.Millisecond, jitterEvery: 5}

	rec, err := New(vol, WithClock(clk), WithSensor(sensor))
	require.NoError(t, err)

	clk.AfterFunc(5025*time.Millisecond, rec.Shutdown)
	require.NoError(t, rec.Run(context.Background()))

	_, rows := records(t, vol.Committed(rec.FileName()))
	require.Len(t, rows, 100)

	for i, row := range rows {
		ts, err := strconv.Atoi(strings.SplitN(row, ",", 2)[0])
		require.NoError(t, err)
		scheduled := (i + 1) * 50
		// A late iteration fires its deadline late, but the next
		// deadline is computed from scheduled time, so lateness never
		// compounds past one jitter burst.
		assert.GreaterOrEqual(t, ts, scheduled)
		assert.LessOrEqual(t, ts, scheduled+10)
	}

	last, _ := strconv.Atoi(strings.SplitN(rows[len(rows)-1], ",", 2)[0])
	assert.Equal(t, 5000, last)
}

func TestShutdownBeforeNextDeadline(t *testing.T) {
	vol := volume.NewMem()
	clk := testutil.NewManualClock(time.Unix(0, 0))
	metrics := &BasicMetricsCollector{}

	rec, err := New(vol,
		WithClock(clk),
		WithSensor(stubSensor{}),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	// Flag raised 20ms after the 20th sample; the 21st deadline (1050ms)
	// must never fire.
	clk.AfterFunc(1020*time.Millisecond, rec.Shutdown)
	require.NoError(t, rec.Run(context.Background()))

	_, rows := records(t, vol.Committed(rec.FileName()))
	require.Len(t, rows, 20)
	assert.True(t, strings.HasPrefix(rows[19], "1000,"))
	assert.EqualValues(t, 20, metrics.SampleCount.Load())
}

func TestHaltOnBarrierFailure(t *testing.T) {
	mem := volume.NewMem()
	vol := volume.NewFaulty(mem)
	// openSession uses two opens; the 1s barrier's reopen fails.
	vol.AddRule("flight_log", volume.Fault{OpenLimit: 2, FailAfterBytes: -1})

	clk := testutil.NewManualClock(time.Unix(0, 0))
	rec, err := New(vol, WithClock(clk), WithSensor(stubSensor{}))
	require.NoError(t, err)

	err = rec.Run(context.Background())
	var be *BarrierError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, StateHalted, rec.State())

	// The failed barrier's close committed all 20 samples before it.
	_, rows := records(t, mem.Committed(rec.FileName()))
	assert.Len(t, rows, 20)
}

func TestSuspendOnBarrierFailure(t *testing.T) {
	mem := volume.NewMem()
	vol := volume.NewFaulty(mem)
	vol.AddRule("flight_log", volume.Fault{OpenLimit: 2, FailAfterBytes: -1})

	clk := testutil.NewManualClock(time.Unix(0, 0))
	metrics := &BasicMetricsCollector{}
	rec, err := New(vol,
		WithClock(clk),
		WithSensor(stubSensor{}),
		WithMetricsCollector(metrics),
		WithBarrierFailurePolicy(SuspendOnBarrierFailure),
	)
	require.NoError(t, err)

	clk.AfterFunc(1275*time.Millisecond, rec.Shutdown)
	require.NoError(t, rec.Run(context.Background()))
	assert.Equal(t, StateHalted, rec.State())

	// 20 samples before the failed barrier, 5 dropped ticks after.
	assert.EqualValues(t, 20, metrics.SampleCount.Load())
	assert.EqualValues(t, 5, metrics.DroppedTicks.Load())
	assert.EqualValues(t, 1, metrics.BarrierErrors.Load())

	_, rows := records(t, mem.Committed(rec.FileName()))
	assert.Len(t, rows, 20)
}

func TestOpenFailureHalts(t *testing.T) {
	vol := volume.NewFaulty(volume.NewMem())
	vol.AddRule("flight_log", volume.Fault{OpenLimit: 0, FailAfterBytes: -1})

	rec, err := New(vol, WithClock(testutil.NewManualClock(time.Unix(0, 0))))
	require.NoError(t, err)

	err = rec.Run(context.Background())
	var oe *OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, StateHalted, rec.State())
}

func TestRunIsOneShot(t *testing.T) {
	vol := volume.NewMem()
	clk := testutil.NewManualClock(time.Unix(0, 0))
	rec, err := New(vol, WithClock(clk), WithSensor(stubSensor{}))
	require.NoError(t, err)

	clk.AfterFunc(10*time.Millisecond, rec.Shutdown)
	require.NoError(t, rec.Run(context.Background()))

	assert.ErrorIs(t, rec.Run(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, StateHalted, rec.State())
}

func TestNewWithoutVolume(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrVolumeUnavailable)
}

func TestExhaustionFallbackWarns(t *testing.T) {
	vol := volume.NewMem()
	for seq := 1; seq <= MaxSequence; seq++ {
		vol.Touch(logName(seq))
	}

	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	rec, err := New(vol, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, "/flight_log_001.csv", rec.FileName())
	assert.Contains(t, buf.String(), "exhausted")
}

func TestContextCancelClosesSession(t *testing.T) {
	vol := volume.NewMem()
	clk := testutil.NewManualClock(time.Unix(0, 0))
	rec, err := New(vol, WithClock(clk), WithSensor(stubSensor{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rec.Run(ctx), context.Canceled)
	assert.Equal(t, StateHalted, rec.State())

	// The session was still opened and closed in order: header durable.
	header, rows := records(t, vol.Committed(rec.FileName()))
	assert.Equal(t, "timestamp_ms,dummy_sensor1,dummy_sensor2", header)
	assert.Empty(t, rows)
}

func TestPowerSenseLineIntegration(t *testing.T) {
	vol := volume.NewMem()
	line := NewSimLine()

	rec, err := New(vol,
		WithSamplingFrequency(500),
		WithBarrierInterval(10*time.Millisecond),
		WithSensor(stubSensor{}),
		WithPowerSense(line),
	)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		line.Trigger()
	}()

	require.NoError(t, rec.Run(context.Background()))
	assert.Equal(t, StateHalted, rec.State())
	assert.True(t, line.Detached())

	header, rows := records(t, vol.Committed(rec.FileName()))
	assert.Equal(t, "timestamp_ms,dummy_sensor1,dummy_sensor2", header)
	assert.NotEmpty(t, rows)
}
