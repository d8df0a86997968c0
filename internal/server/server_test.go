package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/geom"
	"github.com/samithreddychinni/greedytangle/pkg/graph"
	"github.com/samithreddychinni/greedytangle/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return New(config.Default(), store.NewMemory(), logger)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return v
}

func crossedSquare() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: 0, Pos: geom.Vec2{X: 200, Y: 200}, Radius: graph.DefaultNodeRadius},
			{ID: 1, Pos: geom.Vec2{X: 600, Y: 200}, Radius: graph.DefaultNodeRadius},
			{ID: 2, Pos: geom.Vec2{X: 600, Y: 500}, Radius: graph.DefaultNodeRadius},
			{ID: 3, Pos: geom.Vec2{X: 200, Y: 500}, Radius: graph.DefaultNodeRadius},
		},
		Edges: []graph.Edge{{U: 0, V: 2}, {U: 1, V: 3}},
	}
}

func TestHealthz(t *testing.T) {
	rr := doJSON(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decodeBody[map[string]string](t, rr)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestGenerateGraph(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s, http.MethodPost, "/api/graphs",
		map[string]any{"level": "easy", "nodes": 8, "seed": 42})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decodeBody[generateResponse](t, rr)
	if len(resp.Graph.Nodes) != 8 {
		t.Errorf("nodes = %d, want 8", len(resp.Graph.Nodes))
	}
	if len(resp.Graph.Edges) < 8 {
		t.Errorf("edges = %d, want at least the cycle", len(resp.Graph.Edges))
	}
}

func TestGenerateRejectsUnknownLevel(t *testing.T) {
	rr := doJSON(t, newTestServer(t), http.MethodPost, "/api/graphs",
		map[string]any{"level": "impossible"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSolveReturnsImprovingMove(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s, http.MethodPost, "/api/solve",
		map[string]any{"graph": crossedSquare(), "mode": "greedy"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decodeBody[solveResponse](t, rr)
	if resp.Strategy != "Greedy" {
		t.Errorf("strategy = %q", resp.Strategy)
	}
	if !resp.MoveFound {
		t.Fatal("no move found for a crossed graph")
	}
	if resp.Move.Reduction < 1 {
		t.Errorf("reduction = %d, want >= 1", resp.Move.Reduction)
	}
}

func TestSolveRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	if rr := doJSON(t, s, http.MethodPost, "/api/solve", map[string]any{}); rr.Code != http.StatusBadRequest {
		t.Errorf("missing graph: status = %d, want 400", rr.Code)
	}
	if rr := doJSON(t, s, http.MethodPost, "/api/solve",
		map[string]any{"graph": crossedSquare(), "mode": "psychic"}); rr.Code != http.StatusBadRequest {
		t.Errorf("bad mode: status = %d, want 400", rr.Code)
	}
}

func TestRaceStoresReplay(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s, http.MethodPost, "/api/races",
		map[string]any{"graph": crossedSquare(), "mode": "greedy"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decodeBody[raceResponse](t, rr)
	if !resp.Solved {
		t.Errorf("race not solved: %+v", resp)
	}
	if resp.ID == "" {
		t.Fatal("no replay id returned")
	}

	// The stored replay comes back through the replays API.
	get := doJSON(t, s, http.MethodGet, "/api/replays/"+resp.ID, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get replay: status = %d", get.Code)
	}
	rec := decodeBody[store.Record](t, get)
	if rec.Strategy != "Greedy" || !rec.Replay.Solved {
		t.Errorf("record = %+v", rec)
	}

	list := doJSON(t, s, http.MethodGet, "/api/replays", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list: status = %d", list.Code)
	}
	if records := decodeBody[[]store.Record](t, list); len(records) != 1 {
		t.Errorf("list returned %d records", len(records))
	}

	// Delete and verify it is gone.
	if del := doJSON(t, s, http.MethodDelete, "/api/replays/"+resp.ID, nil); del.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", del.Code)
	}
	if gone := doJSON(t, s, http.MethodGet, "/api/replays/"+resp.ID, nil); gone.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", gone.Code)
	}
}

func TestRaceGeneratesWhenNoGraphGiven(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s, http.MethodPost, "/api/races",
		map[string]any{"level": "easy", "nodes": 8, "seed": 7, "mode": "greedy"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decodeBody[raceResponse](t, rr)
	if resp.Solved == false && resp.Stuck == false && resp.Intersections == 0 {
		t.Errorf("inconsistent result: %+v", resp)
	}
}

func TestGetUnknownReplay(t *testing.T) {
	rr := doJSON(t, newTestServer(t), http.MethodGet, "/api/replays/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestListLimitValidation(t *testing.T) {
	rr := doJSON(t, newTestServer(t), http.MethodGet, "/api/replays?limit=-3", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
