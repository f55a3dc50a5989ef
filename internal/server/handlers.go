package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mathlab/internal/calc"
	"mathlab/internal/classify"
	"mathlab/internal/explore"
	"mathlab/internal/numfmt"
	"mathlab/internal/session"
	"mathlab/internal/store"
)

// SessionHeader carries the session id on requests and responses.
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 1 << 20

// EmptyExpression is shown when the calculator receives blank input.
const EmptyExpression = "Type an expression first."

type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Position *int   `json:"position,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) record(ctx context.Context, e store.Entry) {
	if _, err := s.history.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record history", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}

// sessionFor returns the caller's session, creating one when the header is
// missing or stale, and echoes its id back.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.GetOrCreate(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID())
	return sess
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type calcRequest struct {
	Expression string `json:"expression"`
}

type calcResponse struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req calcRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expr := strings.TrimSpace(req.Expression)
	if expr == "" {
		writeError(w, http.StatusBadRequest, EmptyExpression)
		return
	}

	v, err := calc.Evaluate(expr)
	if err != nil {
		var ce *calc.Error
		if !errors.As(err, &ce) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.record(r.Context(), store.Entry{Kind: store.KindCalc, Input: expr, Output: ce.Error(), IsError: true})
		resp := errorResponse{Error: ce.Error(), Kind: ce.Kind.String()}
		if ce.Pos >= 0 {
			pos := ce.Pos
			resp.Position = &pos
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	display := numfmt.Format(v)
	s.record(r.Context(), store.Entry{Kind: store.KindCalc, Input: expr, Output: display})
	writeJSON(w, http.StatusOK, calcResponse{Value: v, Display: display})
}

type inputRequest struct {
	Input string `json:"input"`
}

type classifyResponse struct {
	Type classify.Kind `json:"type"`
	Rule string        `json:"rule,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req inputRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, rule := s.classifier.Explain(req.Input)
	s.record(r.Context(), store.Entry{Kind: store.KindClassify, Input: req.Input, Output: kind.String()})
	writeJSON(w, http.StatusOK, classifyResponse{Type: kind, Rule: rule})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req inputRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result := s.engine.Analyze(req.Input)
	s.record(r.Context(), store.Entry{Kind: store.KindAnalyze, Input: req.Input, Output: result.ChatSummary})
	writeJSON(w, http.StatusOK, result)
}

type quadraticRequest struct {
	A *float64 `json:"a"`
	B *float64 `json:"b"`
	C *float64 `json:"c"`
}

func (q quadraticRequest) coefficients() (a, b, c float64) {
	get := func(p *float64) float64 {
		if p == nil {
			return math.NaN()
		}
		return *p
	}
	return get(q.A), get(q.B), get(q.C)
}

type quadraticResponse struct {
	explore.QuadraticReport
	Summary   string `json:"summary"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleQuadratic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req quadraticRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess := s.sessionFor(w, r)

	a, b, c := req.coefficients()
	input := strings.Join([]string{numfmt.Format(a), numfmt.Format(b), numfmt.Format(c)}, " ")
	report, err := sess.SolveQuadratic(a, b, c)
	if err != nil {
		s.record(r.Context(), store.Entry{Kind: store.KindQuadratic, Input: input, Output: err.Error(), IsError: true})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := report.Summary()
	s.record(r.Context(), store.Entry{Kind: store.KindQuadratic, Input: input, Output: summary})
	writeJSON(w, http.StatusOK, quadraticResponse{QuadraticReport: report, Summary: summary, SessionID: sess.ID()})
}

type fibonacciResponse struct {
	Terms     []int64       `json:"terms"`
	Ratios    []float64     `json:"ratios"`
	Frame     explore.Frame `json:"frame"`
	SessionID string        `json:"session_id"`
}

// termsParam parses ?n=, defaulting to the configured term count.
func (s *Server) termsParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return s.opts.FibDefaultTerms, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &explore.TermRangeError{N: -1, Max: s.opts.FibMaxTerms}
	}
	return n, nil
}

func (s *Server) handleFibonacci(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n, err := s.termsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.sessionFor(w, r)

	frame, err := sess.StartFibonacci(n, s.opts.FibMaxTerms)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	terms, err := explore.Fibonacci(n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.record(r.Context(), store.Entry{Kind: store.KindFibonacci, Input: strconv.Itoa(n), Output: frame.Progress})
	writeJSON(w, http.StatusOK, fibonacciResponse{
		Terms:     terms,
		Ratios:    explore.Ratios(terms),
		Frame:     frame,
		SessionID: sess.ID(),
	})
}

type fibonacciStepResponse struct {
	Frame explore.Frame `json:"frame"`
	Done  bool          `json:"done"`
	Text  string        `json:"text"`
}

func (s *Server) handleFibonacciNext(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, err := s.sessions.Get(r.Header.Get(SessionHeader))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	frame, _, ok := sess.StepFibonacci()
	if !ok {
		writeError(w, http.StatusConflict, "Press Generate to start.")
		return
	}
	text, _ := sess.Fibonacci()
	writeJSON(w, http.StatusOK, fibonacciStepResponse{Frame: frame, Done: frame.Last(), Text: text})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := s.sessions.Create()
	w.Header().Set(SessionHeader, sess.ID())
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID()})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, err := s.sessions.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": sess.Explain()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.sessions.Delete(ps.ByName("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := s.opts.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": s.history.Enabled(), "entries": entries})
}
