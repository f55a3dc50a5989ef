package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mathlab/internal/explore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExplainEmpty(t *testing.T) {
	s := New()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "No recent math result to explain yet. Run Quadratic Solve or Fibonacci Generate first.", s.Explain())
}

func TestExplainQuadratic(t *testing.T) {
	s := New()
	_, err := s.SolveQuadratic(1, -3, 2)
	require.NoError(t, err)
	assert.Equal(t, "Quadratic: your parabola opens upward, with two real roots. Vertex at (1.5, -0.25).", s.Explain())

	_, err = s.SolveQuadratic(-1, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, "Quadratic: your parabola opens downward, with one repeated root. Vertex at (1, 0).", s.Explain())

	// A failed solve keeps the last good report.
	_, err = s.SolveQuadratic(0, 1, 1)
	assert.True(t, errors.Is(err, explore.ErrNotQuadratic))
	q, ok := s.Quadratic()
	require.True(t, ok)
	assert.Equal(t, -1.0, q.A)
}

func TestExplainFibonacci(t *testing.T) {
	s := New()
	_, _, ok := s.StepFibonacci()
	assert.False(t, ok)
	_, ok = s.FibonacciFrame()
	assert.False(t, ok)

	f, err := s.StartFibonacci(6, 25)
	require.NoError(t, err)
	assert.Equal(t, "Showing 2 of 6 terms", f.Progress)
	peek, ok := s.FibonacciFrame()
	require.True(t, ok)
	assert.Equal(t, f, peek)

	// Two visible terms carry no ratio yet.
	assert.Equal(t, nothingToExplain, s.Explain())

	f, done, ok := s.StepFibonacci()
	require.True(t, ok)
	assert.False(t, done)
	assert.Equal(t, int64(1), f.Term)
	assert.Equal(t, "Fibonacci: the ratio Fn/Fn-1 is approaching 1.618. Current estimate: 1.000000.", s.Explain())

	for !done {
		_, done, _ = s.StepFibonacci()
	}
	text, ok := s.Fibonacci()
	require.True(t, ok)
	assert.Equal(t, "Sequence (6 terms): 0, 1, 1, 2, 3, 5. Latest ratio Fn/Fn-1: 1.666667", text)

	_, err = s.SolveQuadratic(1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t,
		"Quadratic: your parabola opens upward, with complex roots. Vertex at (0, 1). "+
			"Fibonacci: the ratio Fn/Fn-1 is approaching 1.618. Current estimate: 1.666667.",
		s.Explain())

	s.ResetFibonacci()
	_, ok = s.Fibonacci()
	assert.False(t, ok)
}

func TestStartFibonacciRejectsRange(t *testing.T) {
	s := New()
	_, err := s.StartFibonacci(1, 25)
	assert.True(t, explore.IsTermRange(err))
}

func TestSessionConcurrentUse(t *testing.T) {
	s := New()
	_, err := s.StartFibonacci(90, 90)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.StepFibonacci()
				_, _ = s.SolveQuadratic(float64(i+1), 1, 1)
				_ = s.Explain()
			}
		}(i)
	}
	wg.Wait()
	text, ok := s.Fibonacci()
	require.True(t, ok)
	assert.Contains(t, text, "Sequence (90 terms)")
}

func TestManager(t *testing.T) {
	m := NewManager(time.Minute, nil)
	s := m.Create()
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Same(t, s, m.GetOrCreate(s.ID()))
	other := m.GetOrCreate("")
	assert.NotEqual(t, s.ID(), other.ID())
	assert.Equal(t, 2, m.Len())

	m.Delete(other.ID())
	m.Delete("never-existed")
	assert.Equal(t, 1, m.Len())
}

func TestManagerEvict(t *testing.T) {
	m := NewManager(time.Minute, nil)
	s := m.Create()

	assert.Equal(t, 0, m.Evict(time.Now()))
	assert.Equal(t, 1, m.Evict(time.Now().Add(2*time.Minute)))
	_, err := m.Get(s.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	never := NewManager(0, nil)
	never.Create()
	assert.Equal(t, 0, never.Evict(time.Now().Add(24*time.Hour)))
}

func TestManagerRun(t *testing.T) {
	m := NewManager(20*time.Millisecond, nil)
	m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestManagerRunWithoutTTL(t *testing.T) {
	m := NewManager(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 0) }()
	cancel()
	require.NoError(t, <-done)
}
