package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecorderAppendsInOrder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	now := time.Now().UTC()
	r.Emit(StageEvent(StageStart, now))
	r.Emit(LogEvent("scanning page", now))
	r.Emit(StageEvent(StageComplete, now))

	events := r.Snapshot()
	require.Len(t, events, 3)
	require.Equal(t, StageStart, events[0].Stage)
	require.Equal(t, TypeLog, events[1].Type)
	require.Equal(t, StageComplete, events[2].Stage)
}

func TestRecorderSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Emit(StageEvent(StageStart, time.Now()))

	snap := r.Snapshot()
	snap[0].Stage = StageError

	require.Equal(t, StageStart, r.Snapshot()[0].Stage)
}

func TestRecorderConcurrentReaders(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			r.Emit(LogEvent("tick", time.Now()))
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()
	<-done
	require.Equal(t, 500, r.Len())
}

func TestMultiSkipsNil(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	var got []Event
	fn := EmitterFunc(func(evt Event) { got = append(got, evt) })

	m := Multi{nil, r, fn}
	m.Emit(StageEvent(StageScanning, time.Now()))

	require.Equal(t, 1, r.Len())
	require.Len(t, got, 1)
}
