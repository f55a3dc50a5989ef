package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// handleFibonacciStream auto-plays a Fibonacci sequence over a websocket,
// one frame per AutoPlayInterval, and closes normally after the last term.
// The session comes from the session query parameter since browsers cannot
// set headers on a websocket handshake.
func (s *Server) handleFibonacciStream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n := s.opts.FibDefaultTerms
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = v
	}

	sess := s.sessions.GetOrCreate(r.URL.Query().Get("session"))
	first, err := sess.StartFibonacci(n, s.opts.FibMaxTerms)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, http.Header{SessionHeader: []string{sess.ID()}})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.readPump(conn)
	}()

	step := func() (fibonacciStepResponse, bool) {
		frame, _, ok := sess.StepFibonacci()
		text, _ := sess.Fibonacci()
		return fibonacciStepResponse{Frame: frame, Done: frame.Last(), Text: text}, ok
	}
	text, _ := sess.Fibonacci()
	s.writePump(ctx, conn, fibonacciStepResponse{Frame: first, Done: first.Last(), Text: text}, step)

	cancel()
	conn.Close()
	<-readDone
	s.logger.Debug("fibonacci stream finished", zap.String("session", sess.ID()), zap.Int("terms", n))
}

// readPump drains the peer until it goes away. The stream carries no client
// messages; reading is needed to process control frames.
func (s *Server) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump sends first, then one stepped frame per tick until a frame is
// marked done or ctx ends.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, first fibonacciStepResponse, step func() (fibonacciStepResponse, bool)) {
	msg := first
	if err := writeFrame(conn, msg); err != nil {
		return
	}
	if msg.Done {
		closeNormal(conn)
		return
	}

	ticker := time.NewTicker(s.opts.AutoPlayInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			var ok bool
			if msg, ok = step(); !ok {
				return
			}
			if err := writeFrame(conn, msg); err != nil {
				return
			}
			if msg.Done {
				closeNormal(conn)
				return
			}
		}
	}
}

func closeNormal(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "sequence complete"))
}

func writeFrame(conn *websocket.Conn, msg fibonacciStepResponse) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
