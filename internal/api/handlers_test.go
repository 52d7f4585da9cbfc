package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispatchopt/internal/events"
	"dispatchopt/internal/jobs"
	"dispatchopt/internal/model"
	"dispatchopt/internal/opt"
	"dispatchopt/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemory()
	broker := events.NewMemoryBroker()
	orch := jobs.NewOrchestrator(st, broker, opt.Balanced{}, 2)
	t.Cleanup(orch.Close)
	return &Server{Store: st, Jobs: orch, Broker: broker}
}

func submitBody(strategy string) []byte {
	req := model.OptimizeRequest{
		Warehouses: []model.Warehouse{{
			ID:        "w1",
			Location:  model.GeoPoint{Lat: 0, Lng: 0},
			Capacity:  100,
			Inventory: []model.InventoryItem{{ProductID: "p1", Quantity: 50}},
		}},
		Orders: []model.Order{{
			ID:       "o1",
			Location: model.GeoPoint{Lat: 0, Lng: 0.1},
			Items:    []model.OrderItem{{ProductID: "p1", Quantity: 2}},
		}},
		Strategy: strategy,
	}
	b, _ := json.Marshal(req)
	return b
}

func submitJob(t *testing.T, s *Server, strategy string) string {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewReader(submitBody(strategy)))
	req.Header.Set("Content-Type", "application/json")
	s.OptimizeHandler(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("optimize: %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" || resp.Status != "running" {
		t.Fatalf("submit response: %+v", resp)
	}
	return resp.JobID
}

func pollDone(t *testing.T, s *Server, id string) model.JobView {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rr := httptest.NewRecorder()
		s.JobByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs/"+id, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("job status: %d %s", rr.Code, rr.Body.String())
		}
		var view model.JobView
		if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		if !view.Status.Active() {
			return view
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish")
	return model.JobView{}
}

func TestSubmitAndPoll(t *testing.T) {
	s := newTestServer(t)
	id := submitJob(t, s, "closest_with_inventory")
	view := pollDone(t, s, id)
	if view.Status != model.StatusDone || view.Progress != 100 {
		t.Fatalf("view: %+v", view)
	}
	if view.Result == nil || len(view.Result.RouteDetails) != 1 {
		t.Fatalf("result: %+v", view.Result)
	}
}

func TestSubmitBadRequests(t *testing.T) {
	s := newTestServer(t)
	cases := []string{
		`not json`,
		`{"warehouses":[],"orders":[]}`,
		`{"warehouses":[{"id":"w1","location":{"lat":0,"lng":0}}],"orders":[]}`,
		string(submitBody("teleport")),
	}
	for i, body := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/optimize", strings.NewReader(body))
		s.OptimizeHandler(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d: got %d", i, rr.Code)
		}
		var p Problem
		if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
			t.Fatalf("case %d: problem body: %v", i, err)
		}
		if p.Status != http.StatusBadRequest {
			t.Fatalf("case %d: problem: %+v", i, p)
		}
	}
}

func TestSubmitMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.OptimizeHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/optimize", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestJobNotFound(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.JobByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs/does-not-exist", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestJobSubroutesNotFound(t *testing.T) {
	s := newTestServer(t)
	id := submitJob(t, s, "closest_any")
	pollDone(t, s, id)

	for _, path := range []string{
		"/v1/jobs/" + id + "/result",
		"/v1/jobs/" + id + "/events",
		"/v1/jobs/" + id + "/events/tail",
		"/v1/jobs/" + id + "/events/stream/extra",
	} {
		rr := httptest.NewRecorder()
		s.JobByIDHandler(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: got %d", path, rr.Code)
		}
	}
}

func TestStrategiesList(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.StrategiesHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/strategies", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var resp struct {
		Strategies []model.StrategyInfo `json:"strategies"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Strategies) != 5 {
		t.Fatalf("strategies: %+v", resp.Strategies)
	}
	if resp.Strategies[0].ID != "ortools_balanced" {
		t.Fatalf("first strategy: %+v", resp.Strategies[0])
	}
}

func TestHealthCounts(t *testing.T) {
	s := newTestServer(t)
	id := submitJob(t, s, "closest_any")
	pollDone(t, s, id)

	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var resp struct {
		Status          string `json:"status"`
		JobsCount       int    `json:"jobsCount"`
		ActiveJobsCount int    `json:"activeJobsCount"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.JobsCount != 1 || resp.ActiveJobsCount != 0 {
		t.Fatalf("health: %+v", resp)
	}
}

func TestReady(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestJobEventsSSETerminalSnapshot(t *testing.T) {
	s := newTestServer(t)
	id := submitJob(t, s, "least_total_load")
	pollDone(t, s, id)

	rr := httptest.NewRecorder()
	s.JobByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs/"+id+"/events/stream", nil))
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %s", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "event: job.done") {
		t.Fatalf("stream body: %s", body)
	}
}

func TestJobEventsSSEUnknownJob(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.JobByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs/nope/events/stream", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestSubmitLimiter(t *testing.T) {
	calls := 0
	h := SubmitLimiter(1, 1, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/v1/optimize", nil))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("first: %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/v1/optimize", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second: %d", rr.Code)
	}
	if calls != 1 {
		t.Fatalf("handler calls: %d", calls)
	}
}
