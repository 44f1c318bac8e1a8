package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lox/pushfold/internal/store"
	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/pushfold"
	"github.com/lox/pushfold/sdk/ranges"
)

var errStoreDisabled = errors.New("range store not configured")

type rangeResponse struct {
	Notation   string   `json:"notation"`
	Classes    []string `json:"classes"`
	Combos     int      `json:"combos"`
	Percentage float64  `json:"percentage"`
}

func newRangeResponse(r ranges.Range) rangeResponse {
	return rangeResponse{
		Notation:   ranges.Format(r),
		Classes:    classNames(r.ByStrength()),
		Combos:     r.Weight(),
		Percentage: r.Percentage(),
	}
}

func classNames(classes []hands.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.String()
	}
	return out
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	rangeResponse
	Tokens  int      `json:"tokens"`
	Matched int      `json:"matched"`
	Dropped []string `json:"dropped"`
}

func (s *Server) handleParseRange(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rng, stats := ranges.Parse(req.Text)
	dropped := stats.Dropped
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, parseResponse{
		rangeResponse: newRangeResponse(rng),
		Tokens:        stats.Tokens,
		Matched:       stats.Matched,
		Dropped:       dropped,
	})
}

type formatRequest struct {
	Classes []string `json:"classes"`
}

func (s *Server) handleFormatRange(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var rng ranges.Range
	for _, name := range req.Classes {
		c, err := hands.ParseClass(name)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		rng.Add(c)
	}
	writeJSON(w, http.StatusOK, newRangeResponse(rng))
}

type presetResponse struct {
	Name string `json:"name"`
	rangeResponse
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := ranges.Presets()
	out := make([]presetResponse, len(presets))
	for i, p := range presets {
		out[i] = presetResponse{Name: p.Name, rangeResponse: newRangeResponse(p.Range)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": out})
}

type adviceResponse struct {
	Text         string   `json:"text"`
	Tips         string   `json:"tips"`
	Seat         string   `json:"seat"`
	Percentage   float64  `json:"percentage"`
	NearestStack float64  `json:"nearest_stack"`
	Hands        []string `json:"hands"`
	Notation     string   `json:"notation"`
	Push         *bool    `json:"push,omitempty"`
}

// handleAdvise answers GET /api/pushfold/advise?stack=10&seat=CO&players=6.
// An optional hand=AJo adds a push/fold verdict for that hand.
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stack, err := strconv.ParseFloat(q.Get("stack"), 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: stack: %v", errBadRequest, err))
		return
	}
	players := 9
	if v := q.Get("players"); v != "" {
		if players, err = strconv.Atoi(v); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: players: %v", errBadRequest, err))
			return
		}
	}
	if s.table == nil {
		s.writeError(w, r, pushfold.ErrDataUnavailable)
		return
	}

	advice, err := s.table.Advise(stack, q.Get("seat"), players)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := adviceResponse{
		Text:         advice.Text,
		Tips:         advice.Tips,
		Seat:         advice.Seat.String(),
		Percentage:   advice.Percentage,
		NearestStack: advice.NearestStack,
		Hands:        classNames(advice.Hands),
		Notation:     ranges.Format(advice.Range),
	}
	if h := q.Get("hand"); h != "" {
		c, err := hands.ParseClass(h)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: hand: %v", errBadRequest, err))
			return
		}
		push := advice.ShouldPush(c)
		resp.Push = &push
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopHands(w http.ResponseWriter, r *http.Request) {
	pct, err := strconv.ParseFloat(r.URL.Query().Get("pct"), 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: pct: %v", errBadRequest, err))
		return
	}
	top := pushfold.TopHands(pct)
	writeJSON(w, http.StatusOK, newRangeResponse(ranges.New(top...)))
}

type saveRangeRequest struct {
	Notation string `json:"notation"`
}

func (s *Server) handleListRanges(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errStoreDisabled)
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.SavedRange{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranges": list})
}

func (s *Server) handleGetRange(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errStoreDisabled)
		return
	}
	saved, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleSaveRange(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errStoreDisabled)
		return
	}
	var req saveRangeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rng, stats := ranges.Parse(req.Notation)
	if len(stats.Dropped) > 0 {
		s.writeError(w, r, fmt.Errorf("%w: unrecognised tokens %q", errBadRequest, stats.Dropped))
		return
	}
	saved, err := s.store.Save(r.Context(), chi.URLParam(r, "name"), rng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Saved range", "name", saved.Name, "combos", saved.Combos)
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRange(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errStoreDisabled)
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
