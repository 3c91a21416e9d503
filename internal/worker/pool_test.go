package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_KeepsInputOrder(t *testing.T) {
	inputs := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	p := NewPool(3, func(_ context.Context, s string) (int, error) {
		return len(s), nil
	})

	jobs := p.Run(context.Background(), inputs)
	require.Len(t, jobs, len(inputs))
	for i, j := range jobs {
		assert.Equal(t, inputs[i], j.Input)
		assert.Equal(t, i+1, j.Output)
		assert.NoError(t, j.Err)
	}
}

func TestRun_CollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewPool(2, func(_ context.Context, s string) (string, error) {
		if strings.HasPrefix(s, "x") {
			return "", boom
		}
		return strings.ToUpper(s), nil
	})

	jobs := p.Run(context.Background(), []string{"a", "xb", "c"})
	failed := Errors(jobs)
	require.Len(t, failed, 1)
	assert.Equal(t, "xb", failed[0].Input)
	assert.ErrorIs(t, failed[0].Err, boom)
	assert.Equal(t, "C", jobs[2].Output)
}

func TestRun_Progress(t *testing.T) {
	var calls atomic.Int64
	var last atomic.Int64
	p := NewPool(4, func(_ context.Context, n int) (int, error) { return n * 2, nil }).
		OnProgress(func(done, total int) {
			calls.Add(1)
			assert.Equal(t, 10, total)
			if int64(done) > last.Load() {
				last.Store(int64(done))
			}
		})

	p.Run(context.Background(), make([]int, 10))
	assert.EqualValues(t, 10, calls.Load())
	assert.EqualValues(t, 10, last.Load())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int64
	p := NewPool(2, func(_ context.Context, n int) (int, error) {
		ran.Add(1)
		return n, nil
	})

	jobs := p.Run(ctx, []int{1, 2, 3})
	require.Len(t, jobs, 3)
	for _, j := range jobs {
		if j.Err != nil {
			assert.ErrorIs(t, j.Err, context.Canceled)
		}
	}
	assert.Equal(t, int(ran.Load()), 3-len(Errors(jobs)))
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	p := NewPool(0, func(_ context.Context, n int) (int, error) { return n, nil })
	assert.Equal(t, 1, p.workers)
	assert.Empty(t, p.Run(context.Background(), nil))
}
