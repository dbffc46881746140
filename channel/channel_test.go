package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordLogger captures warnings for assertions.
type recordLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordLogger) Debug(string, ...any) {}
func (l *recordLogger) Info(string, ...any)  {}
func (l *recordLogger) Error(string, ...any) {}

func (l *recordLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

// nextResult carries a Next outcome across goroutines so test assertions stay
// on the main goroutine.
type nextResult[T any] struct {
	item T
	err  error
}

func asyncNext[T any](ctx context.Context, rcv *Receiver[T]) <-chan nextResult[T] {
	out := make(chan nextResult[T], 1)
	go func() {
		item, err := rcv.Next(ctx)
		out <- nextResult[T]{item: item, err: err}
	}()
	return out
}

func awaitResult[T any](t *testing.T, ch <-chan nextResult[T]) nextResult[T] {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Next")
		return nextResult[T]{}
	}
}

func TestSendDeliversInOrder(t *testing.T) {
	ch := New[int](8)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, ch.Send(i))
	}

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		item, err := rcv.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, item)
	}
}

func TestFanOutToAllReceivers(t *testing.T) {
	ch := New[string](4)

	first, err := ch.Subscribe()
	require.NoError(t, err)
	second, err := ch.Subscribe()
	require.NoError(t, err)

	require.NoError(t, ch.Send("hello"))

	ctx := context.Background()
	got, err := first.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = second.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestLateSubscriberSeesNothingRetroactively(t *testing.T) {
	ch := New[int](4)

	early, err := ch.Subscribe()
	require.NoError(t, err)
	require.NoError(t, ch.Send(1))

	late, err := ch.Subscribe()
	require.NoError(t, err)
	require.NoError(t, ch.Send(2))

	ctx := context.Background()

	item, err := early.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, item)
	item, err = early.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, item)

	// The late receiver observes only the item sent after it subscribed.
	item, err = late.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, item)
	assert.Equal(t, 0, late.Len())
}

func TestLagEvictsOldest(t *testing.T) {
	ch := New[int](8, func(o *Options) {
		o.Policy = Policy{MaxLag: 3, LagReportInterval: 2}
	})
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, ch.Send(i))
	}

	assert.Equal(t, uint64(2), rcv.Lag())
	assert.Equal(t, 3, rcv.Len())

	// The two oldest items were evicted.
	ctx := context.Background()
	for _, want := range []int{3, 4, 5} {
		item, err := rcv.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, item)
	}
}

func TestLagSurfacesOnceWithThrowPolicy(t *testing.T) {
	ch := New[int](8, func(o *Options) {
		o.Policy = Policy{MaxLag: 3, OnLag: OnLagThrow, LagReportInterval: 2}
	})
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, ch.Send(i))
	}

	ctx := context.Background()

	_, err = rcv.Next(ctx)
	var lagErr *LagError
	require.ErrorAs(t, err, &lagErr)
	assert.Equal(t, uint64(2), lagErr.Count)

	// The receiver keeps operating and the condition surfaces exactly once.
	for _, want := range []int{3, 4, 5} {
		item, err := rcv.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, item)
	}
}

func TestLagLoggedOnceWithLogOnlyPolicy(t *testing.T) {
	logger := &recordLogger{}
	ch := New[int](8, func(o *Options) {
		o.Policy = Policy{MaxLag: 3, LagReportInterval: 2}
		o.Logger = logger
	})
	_, err := ch.Subscribe()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, ch.Send(i))
	}

	assert.Equal(t, 1, logger.warnCount())
}

func TestSendOnClosedChannel(t *testing.T) {
	ch := New[int](4)
	ch.Close()

	err := ch.Send(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, ch.TrySend(1))
}

func TestSubscribeOnClosedChannel(t *testing.T) {
	ch := New[int](4)
	ch.Close()

	_, err := ch.Subscribe()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	ch := New[int](4)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	ch.Close()
	ch.Close()

	assert.True(t, ch.Closed())
	assert.True(t, rcv.Closed())
	assert.Equal(t, 0, ch.Stats().Receivers)
}

func TestCloseWakesAllWaitersExactlyOnce(t *testing.T) {
	ch := New[int](4)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	results := []<-chan nextResult[int]{
		asyncNext(ctx, rcv),
		asyncNext(ctx, rcv),
		asyncNext(ctx, rcv),
	}

	// Give the consumers a moment to suspend before closing.
	time.Sleep(20 * time.Millisecond)
	ch.Close()

	for _, resCh := range results {
		res := awaitResult(t, resCh)
		assert.ErrorIs(t, res.err, ErrClosed)
	}

	// Subsequent calls still report end-of-stream.
	_, err = rcv.Next(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNextHandsOffToSuspendedWaiter(t *testing.T) {
	ch := New[string](4)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	resCh := asyncNext(context.Background(), rcv)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, ch.Send("direct"))

	res := awaitResult(t, resCh)
	require.NoError(t, res.err)
	assert.Equal(t, "direct", res.item)
	assert.Equal(t, 0, rcv.Len())
}

func TestNextContextCancellation(t *testing.T) {
	ch := New[int](4)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	resCh := asyncNext(ctx, rcv)
	time.Sleep(20 * time.Millisecond)
	cancel()

	res := awaitResult(t, resCh)
	assert.ErrorIs(t, res.err, context.Canceled)

	// The receiver stays usable after a cancelled wait.
	require.NoError(t, ch.Send(42))
	item, err := rcv.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, item)
}

func TestReceiverCloseDeregisters(t *testing.T) {
	ch := New[int](4)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)
	require.Equal(t, 1, ch.Stats().Receivers)

	rcv.Close()
	rcv.Close()

	assert.Equal(t, 0, ch.Stats().Receivers)

	// Sends after deregistration do not reach the closed receiver.
	require.NoError(t, ch.Send(1))
	_, err = rcv.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStatsSnapshot(t *testing.T) {
	ch := New[int](2, func(o *Options) {
		o.Policy = Policy{MaxLag: 2, LagReportInterval: 1}
	})
	_, err := ch.Subscribe()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, ch.Send(i))
	}

	stats := ch.Stats()
	assert.Equal(t, uint64(4), stats.Sent)
	assert.Equal(t, 1, stats.Receivers)
	assert.Equal(t, uint64(2), stats.Dropped)
}

func TestConcurrentSendAndSubscribe(t *testing.T) {
	ch := New[int](64)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Senders hammer the channel while receivers come and go.
	for s := 0; s < 4; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				if err := ch.Send(i); err != nil {
					return
				}
			}
		}()
	}

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rcv, err := ch.Subscribe()
			if err != nil {
				return
			}
			defer rcv.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			for {
				if _, err := rcv.Next(ctx); err != nil {
					if errors.Is(err, ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
						return
					}
				}
			}
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(stop)
	ch.Close()
	wg.Wait()
}

func TestReceiverOrderUnderInterleavedConsumption(t *testing.T) {
	ch := New[int](16)
	rcv, err := ch.Subscribe()
	require.NoError(t, err)

	ctx := context.Background()
	var got []int
	for i := 0; i < 10; i++ {
		require.NoError(t, ch.Send(i))
		if i%3 == 0 {
			item, err := rcv.Next(ctx)
			require.NoError(t, err)
			got = append(got, item)
		}
	}
	for rcv.Len() > 0 {
		item, err := rcv.Next(ctx)
		require.NoError(t, err)
		got = append(got, item)
	}

	want := make([]int, 10)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got, fmt.Sprintf("expected strict FIFO, got %v", got))
}
