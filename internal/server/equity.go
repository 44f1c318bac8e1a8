package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
	"github.com/lox/pushfold/sdk/ranges"
)

// equityRequest is the wire form of equity.Request. Cards use the usual
// two-character notation ("AsKd"); the villain range uses range notation.
type equityRequest struct {
	Hero    string `json:"hero"`
	Villain string `json:"villain"`
	Board   string `json:"board,omitempty"`
	Trials  int    `json:"trials,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
}

func (req equityRequest) toRequest() (equity.Request, error) {
	hero, err := poker.ParseCards(req.Hero)
	if err != nil {
		return equity.Request{}, fmt.Errorf("%w: hero: %v", equity.ErrInvalidInput, err)
	}
	if len(hero) != 2 {
		return equity.Request{}, fmt.Errorf("%w: hero needs 2 cards, got %d", equity.ErrInvalidInput, len(hero))
	}
	board, err := poker.ParseCards(req.Board)
	if err != nil {
		return equity.Request{}, fmt.Errorf("%w: board: %v", equity.ErrInvalidInput, err)
	}
	villain, stats := ranges.Parse(req.Villain)
	if len(stats.Dropped) > 0 {
		return equity.Request{}, fmt.Errorf("%w: villain: unrecognised tokens %q", equity.ErrInvalidInput, stats.Dropped)
	}
	if req.Trials < 0 || req.Trials > MaxTrials {
		return equity.Request{}, fmt.Errorf("%w: trials must be 0-%d", equity.ErrInvalidInput, MaxTrials)
	}
	return equity.Request{
		Hero:    [2]poker.Card{hero[0], hero[1]},
		Villain: villain,
		Board:   board,
		Trials:  req.Trials,
		Seed:    req.Seed,
	}, nil
}

type streetResponse struct {
	equity.StreetResult
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
}

func newStreetResponse(sr equity.StreetResult) streetResponse {
	lo, hi := sr.ConfidenceInterval()
	return streetResponse{StreetResult: sr, CILow: lo, CIHigh: hi}
}

type equityResponse struct {
	Streets  []streetResponse `json:"streets"`
	Seed     int64            `json:"seed"`
	TimedOut bool             `json:"timed_out"`
}

// newEquityResponse lists only the streets that ran.
func newEquityResponse(res equity.Result) equityResponse {
	out := equityResponse{Seed: res.Seed, TimedOut: res.TimedOut}
	for _, sr := range res.Streets {
		if sr.Status == equity.NotApplicable {
			continue
		}
		out.Streets = append(out.Streets, newStreetResponse(sr))
	}
	return out
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	var body equityRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := body.toRequest()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.Compute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEquityResponse(res))
}

type batchRequest struct {
	Requests []equityRequest `json:"requests"`
}

func (s *Server) handleEquityBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	reqs := make([]equity.Request, len(body.Requests))
	for i, br := range body.Requests {
		req, err := br.toRequest()
		if err != nil {
			s.writeError(w, r, fmt.Errorf("request %d: %w", i, err))
			return
		}
		reqs[i] = req
	}
	results, err := s.engine.ComputeBatch(r.Context(), reqs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]equityResponse, len(results))
	for i, res := range results {
		out[i] = newEquityResponse(res)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// Websocket message types sent by /ws/equity.
const (
	msgStreet = "street"
	msgDone   = "done"
	msgError  = "error"
)

type streamMessage struct {
	Type   string          `json:"type"`
	Street *streetResponse `json:"street,omitempty"`
	Result *equityResponse `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const writeWait = 10 * time.Second

// handleEquityStream upgrades to a websocket and answers each JSON
// equityRequest with one "street" message per finished street followed by
// "done". A bad request gets an "error" message and the socket stays open.
func (s *Server) handleEquityStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.logger.Debug("Equity stream connected", "remote", r.RemoteAddr)
	for {
		var body equityRequest
		if err := conn.ReadJSON(&body); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Equity stream closed", "error", err)
			}
			return
		}
		if err := s.streamOne(ctx, conn, body); err != nil {
			s.logger.Warn("Equity stream write failed", "error", err)
			return
		}
	}
}

func (s *Server) streamOne(ctx context.Context, conn *websocket.Conn, body equityRequest) error {
	send := func(m streamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}

	req, err := body.toRequest()
	if err != nil {
		return send(streamMessage{Type: msgError, Error: err.Error()})
	}

	var writeErr error
	res, err := s.engine.Stream(ctx, req, func(sr equity.StreetResult) error {
		st := newStreetResponse(sr)
		if writeErr = send(streamMessage{Type: msgStreet, Street: &st}); writeErr != nil {
			return writeErr
		}
		return nil
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return send(streamMessage{Type: msgError, Error: err.Error()})
	}
	final := newEquityResponse(res)
	return send(streamMessage{Type: msgDone, Result: &final})
}
