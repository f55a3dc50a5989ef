// Package session keeps the per-user state of the math lab between requests:
// the last quadratic solved and the Fibonacci sequence being played back.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mathlab/internal/explore"
	"mathlab/internal/numfmt"
)

// Session is safe for concurrent use.
type Session struct {
	id      string
	created time.Time

	mu        sync.Mutex
	lastSeen  time.Time
	quadratic *explore.QuadraticReport
	fib       *explore.Player
}

// New returns an empty session with a random id.
func New() *Session {
	now := time.Now()
	return &Session{id: uuid.NewString(), created: now, lastSeen: now}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Created() time.Time { return s.created }

// LastSeen is the time of the most recent call that touched the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() { s.lastSeen = time.Now() }

// SolveQuadratic solves a·x²+bx+c and remembers the report. A failed solve
// leaves the previous report in place.
func (s *Session) SolveQuadratic(a, b, c float64) (explore.QuadraticReport, error) {
	r, err := explore.SolveQuadratic(a, b, c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err != nil {
		return explore.QuadraticReport{}, err
	}
	s.quadratic = &r
	return r, nil
}

// Quadratic returns the last solved report.
func (s *Session) Quadratic() (explore.QuadraticReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quadratic == nil {
		return explore.QuadraticReport{}, false
	}
	return *s.quadratic, true
}

// StartFibonacci replaces the session's player with a fresh n-term sequence
// and returns its first frame.
func (s *Session) StartFibonacci(n, limit int) (explore.Frame, error) {
	p, err := explore.NewPlayer(n, limit)
	if err != nil {
		return explore.Frame{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.fib = p
	return p.Frame(), nil
}

// StepFibonacci reveals the next term. ok is false when no sequence has been
// started; done is true once every term is visible.
func (s *Session) StepFibonacci() (f explore.Frame, done, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.fib == nil {
		return explore.Frame{}, false, false
	}
	_, done = s.fib.Next()
	return s.fib.Frame(), done, true
}

// FibonacciFrame returns the current frame without stepping. ok is false
// when no sequence has been started.
func (s *Session) FibonacciFrame() (f explore.Frame, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fib == nil {
		return explore.Frame{}, false
	}
	return s.fib.Frame(), true
}

// ResetFibonacci drops the player entirely.
func (s *Session) ResetFibonacci() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.fib = nil
}

// Fibonacci returns a rendering of the current playback state.
func (s *Session) Fibonacci() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fib == nil {
		return "", false
	}
	return s.fib.String(), true
}

const nothingToExplain = "No recent math result to explain yet. Run Quadratic Solve or Fibonacci Generate first."

// Explain describes the session's recent results in plain words.
func (s *Session) Explain() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var lines []string
	if q := s.quadratic; q != nil {
		shape := "opens downward"
		if q.OpensUpward() {
			shape = "opens upward"
		}
		lines = append(lines, fmt.Sprintf("Quadratic: your parabola %s, with %s. Vertex at (%s, %s).",
			shape, q.RootKind, numfmt.Format(q.VertexX), numfmt.Format(q.VertexY)))
	}
	if s.fib != nil && s.fib.Shown() >= 3 {
		if r, ok := s.fib.LatestRatio(); ok {
			lines = append(lines, fmt.Sprintf("Fibonacci: the ratio Fn/Fn-1 is approaching %s. Current estimate: %s.",
				strconv.FormatFloat(explore.Phi, 'f', 3, 64), strconv.FormatFloat(r, 'f', 6, 64)))
		}
	}
	if len(lines) == 0 {
		return nothingToExplain
	}
	return strings.Join(lines, " ")
}
