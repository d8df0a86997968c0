package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/graph/gen"
	"github.com/samithreddychinni/greedytangle/pkg/race"
	"github.com/samithreddychinni/greedytangle/pkg/solver"
	"github.com/samithreddychinni/greedytangle/pkg/store"
)

// ============================================================================
// Graph generation
// ============================================================================

type generateRequest struct {
	Level string `json:"level"`
	Nodes int    `json:"nodes"`
	Seed  uint64 `json:"seed,omitempty"`
}

type generateResponse struct {
	Graph         *graph.Graph `json:"graph"`
	Intersections int          `json:"intersections"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request"))
		return
	}
	if req.Level == "" {
		req.Level = "easy"
	}
	if req.Nodes == 0 {
		req.Nodes = 10
	}

	g, err := gen.Level(s.cfg, req.Level, req.Nodes, gen.Rand(req.Seed))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Graph:         g,
		Intersections: graph.CountIntersections(g.Nodes, g.Edges),
	})
}

// ============================================================================
// Single-move solve
// ============================================================================

type solveRequest struct {
	Graph *graph.Graph `json:"graph"`
	Mode  string       `json:"mode"`
}

type solveResponse struct {
	Strategy   string      `json:"strategy"`
	Move       solver.Move `json:"move"`
	MoveFound  bool        `json:"move_found"`
	Candidates int         `json:"candidates_evaluated"`
}

func (s *Server) decodeGraph(g *graph.Graph) error {
	if g == nil || len(g.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "request carries no graph")
	}
	g.RebuildAdjacency()
	return g.Validate()
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request"))
		return
	}
	if err := s.decodeGraph(req.Graph); err != nil {
		s.writeError(w, err)
		return
	}

	mode, ok := solver.ParseMode(req.Mode)
	if !ok && req.Mode != "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", req.Mode))
		return
	}

	sv := solver.New(mode, s.cfg)
	move := sv.FindBestMove(req.Graph.Nodes, req.Graph.Edges)

	writeJSON(w, http.StatusOK, solveResponse{
		Strategy:   sv.Name(),
		Move:       move,
		MoveFound:  move.Valid(),
		Candidates: sv.LastCandidatesEvaluated(),
	})
}

// ============================================================================
// Races
// ============================================================================

type raceRequest struct {
	Graph    *graph.Graph `json:"graph,omitempty"`
	Level    string       `json:"level,omitempty"`
	Nodes    int          `json:"nodes,omitempty"`
	Seed     uint64       `json:"seed,omitempty"`
	Mode     string       `json:"mode"`
	MaxMoves int          `json:"max_moves,omitempty"`
}

type raceResponse struct {
	ID            string `json:"id"`
	Strategy      string `json:"strategy"`
	Solved        bool   `json:"solved"`
	Stuck         bool   `json:"stuck"`
	TotalMoves    int    `json:"total_moves"`
	Intersections int    `json:"intersections"`
}

// handleRace runs a strategy to completion on the supplied or generated
// graph and stores the replay.
func (s *Server) handleRace(w http.ResponseWriter, r *http.Request) {
	var req raceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request"))
		return
	}

	g := req.Graph
	if g == nil {
		if req.Level == "" {
			req.Level = "easy"
		}
		if req.Nodes == 0 {
			req.Nodes = 10
		}
		var err error
		if g, err = gen.Level(s.cfg, req.Level, req.Nodes, gen.Rand(req.Seed)); err != nil {
			s.writeError(w, err)
			return
		}
	} else if err := s.decodeGraph(g); err != nil {
		s.writeError(w, err)
		return
	}

	mode, ok := solver.ParseMode(req.Mode)
	if !ok && req.Mode != "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", req.Mode))
		return
	}

	res := race.Autopilot(r.Context(), s.cfg, mode, g, req.MaxMoves, s.logger)

	rec := &store.Record{
		Strategy:   solver.New(mode, s.cfg).Name(),
		Difficulty: req.Level,
		Replay:     res.Log.Snapshot(),
	}
	if res.Solved {
		rec.Winner = "cpu"
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, raceResponse{
		ID:            rec.ID,
		Strategy:      rec.Strategy,
		Solved:        res.Solved,
		Stuck:         res.Stuck,
		TotalMoves:    res.Moves,
		Intersections: res.Final,
	})
}

// ============================================================================
// Replays
// ============================================================================

func (s *Server) handleListReplays(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "bad limit %q", raw))
			return
		}
		limit = n
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetReplay(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteReplay(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
