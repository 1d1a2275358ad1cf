package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"starroute-service/internal/api/dto"
	"starroute-service/internal/domain"
	"starroute-service/internal/ports"
)

// stubResolver serves coordinates from a fixed map keyed by normalized name.
type stubResolver struct {
	points map[string]domain.SystemPoint
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, name string) (domain.SystemPoint, error) {
	if s.err != nil {
		return domain.SystemPoint{}, s.err
	}
	p, ok := s.points[domain.NormalizeName(name)]
	if !ok {
		return domain.SystemPoint{}, fmt.Errorf("resolve %q: %w", name, ports.ErrSystemNotFound)
	}
	return p, nil
}

func (s *stubResolver) ResolveAll(ctx context.Context, names []string) ([]domain.SystemPoint, error) {
	out := make([]domain.SystemPoint, 0, len(names))
	for _, name := range names {
		p, err := s.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubResolver) Seed(points []domain.SystemPoint) {
	if s.points == nil {
		s.points = make(map[string]domain.SystemPoint)
	}
	for _, p := range points {
		s.points[domain.NormalizeName(p.Name)] = p
	}
}

type memHistory struct {
	entries []domain.RouteHistoryEntry
	err     error
}

func (m *memHistory) Append(_ context.Context, entry domain.RouteHistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memHistory) List(_ context.Context, limit int) ([]domain.RouteHistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.RouteHistoryEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.entries[i])
	}
	return out, nil
}

func triangleResolver() *stubResolver {
	r := &stubResolver{}
	r.Seed([]domain.SystemPoint{
		{Name: "Sol", Coords: domain.Coordinates{X: 0, Y: 0, Z: 0}},
		{Name: "Alpha", Coords: domain.Coordinates{X: 3, Y: 0, Z: 0}},
		{Name: "Beta", Coords: domain.Coordinates{X: 3, Y: 4, Z: 0}},
	})
	return r
}

func TestPlanRouteEndpoint(t *testing.T) {
	h := &RouteHandler{Resolver: triangleResolver(), History: &memHistory{}}

	jr := 3.5
	body, _ := json.Marshal(dto.PlanRouteRequest{
		Systems:    []string{"Sol", "Beta", "Alpha"},
		JumpRange:  &jr,
		FixedStart: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var res dto.PlanRouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantOrder := []string{"Sol", "Alpha", "Beta"}
	if len(res.Optimized.Systems) != len(wantOrder) {
		t.Fatalf("optimized systems = %v, want %v", res.Optimized.Systems, wantOrder)
	}
	for i, name := range wantOrder {
		if res.Optimized.Systems[i] != name {
			t.Fatalf("optimized systems = %v, want %v", res.Optimized.Systems, wantOrder)
		}
	}

	if res.Optimized.TotalDistanceLy != 7 {
		t.Fatalf("optimized total = %v, want 7", res.Optimized.TotalDistanceLy)
	}
	if res.Optimized.TotalJumps != 3 {
		t.Fatalf("optimized jumps = %d, want 3", res.Optimized.TotalJumps)
	}
	if res.Entered.TotalDistanceLy <= res.Optimized.TotalDistanceLy {
		t.Fatalf("entered total %v should exceed optimized %v for this input order",
			res.Entered.TotalDistanceLy, res.Optimized.TotalDistanceLy)
	}
}

func TestPlanRouteRecordsHistory(t *testing.T) {
	history := &memHistory{}
	h := &RouteHandler{Resolver: triangleResolver(), History: history}

	body := `{"systems": ["Sol", "Alpha", "Beta"], "fixed_start": true}`
	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if len(history.entries) != 2 {
		t.Fatalf("history entries = %d, want 2 (entered + optimized)", len(history.entries))
	}
	if history.entries[0].Optimized || !history.entries[1].Optimized {
		t.Fatalf("history order wrong: entered first, optimized second")
	}
}

func TestPlanRouteHistoryFailureDoesNotFailRequest(t *testing.T) {
	history := &memHistory{err: errors.New("disk gone")}
	h := &RouteHandler{Resolver: triangleResolver(), History: history}

	body := `{"systems": ["Sol", "Alpha", "Beta"]}`
	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite history failure (body %s)", rec.Code, rec.Body.String())
	}
}

func TestPlanRouteValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty systems", `{"systems": []}`, http.StatusBadRequest},
		{"invalid json", `{"systems": [`, http.StatusBadRequest},
		{"unknown field", `{"systems": ["Sol", "Alpha"], "bogus": 1}`, http.StatusBadRequest},
		{"zero jump range", `{"systems": ["Sol", "Alpha"], "jump_range": 0}`, http.StatusBadRequest},
		{"negative jump range", `{"systems": ["Sol", "Alpha"], "jump_range": -2.5}`, http.StatusBadRequest},
		{"unknown system", `{"systems": ["Sol", "Atlantis"]}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &RouteHandler{Resolver: triangleResolver(), History: &memHistory{}}
			req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Plan(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestPlanRouteLookupFailure(t *testing.T) {
	r := &stubResolver{err: fmt.Errorf("edsm down: %w", ports.ErrLookupFailed)}
	h := &RouteHandler{Resolver: r, History: &memHistory{}}

	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(`{"systems": ["Sol", "Alpha"]}`))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestImportRoutePlansAndExports(t *testing.T) {
	r := &stubResolver{}
	h := &RouteHandler{Resolver: r, History: &memHistory{}}

	csv := "System Name,X,Y,Z\nSol,0,0,0\nAlpha,3,0,0\nBeta,3,4,0\n"
	req := httptest.NewRequest(http.MethodPost, "/routes/import?jump_range=3.5", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var res dto.ImportRouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if res.Imported != 3 {
		t.Fatalf("imported = %d, want 3", res.Imported)
	}
	if res.Plan == nil {
		t.Fatal("expected a plan for a multi-system import")
	}
	if res.Plan.Optimized.TotalDistanceLy != 7 {
		t.Fatalf("optimized total = %v, want 7", res.Plan.Optimized.TotalDistanceLy)
	}

	// The imported plan becomes exportable.
	exportReq := httptest.NewRequest(http.MethodGet, "/routes/export", nil)
	exportRec := httptest.NewRecorder()
	h.Export(exportRec, exportReq)

	if exportRec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", exportRec.Code)
	}
	if ct := exportRec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("export content type = %q, want text/csv", ct)
	}
	got := exportRec.Body.String()
	if !strings.HasPrefix(got, "System Name,X,Y,Z") {
		t.Fatalf("export missing header: %q", got)
	}
	for _, name := range []string{"Sol", "Alpha", "Beta"} {
		if !strings.Contains(got, name) {
			t.Fatalf("export missing system %q: %q", name, got)
		}
	}
}

func TestImportRouteSingleSystem(t *testing.T) {
	h := &RouteHandler{Resolver: &stubResolver{}, History: &memHistory{}}

	csv := "System Name,X,Y,Z\nSol,0,0,0\n"
	req := httptest.NewRequest(http.MethodPost, "/routes/import", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var res dto.ImportRouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("imported = %d, want 1", res.Imported)
	}
	if res.Plan != nil {
		t.Fatal("single-system import should not plan a route")
	}
}

func TestImportRouteRejectsBadCSV(t *testing.T) {
	h := &RouteHandler{Resolver: &stubResolver{}, History: &memHistory{}}

	req := httptest.NewRequest(http.MethodPost, "/routes/import", strings.NewReader("Nope,X\nSol,1\n"))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestExportWithoutPlan(t *testing.T) {
	h := &RouteHandler{Resolver: &stubResolver{}, History: &memHistory{}}

	req := httptest.NewRequest(http.MethodGet, "/routes/export", nil)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPlanRouteMethodNotAllowed(t *testing.T) {
	h := &RouteHandler{Resolver: &stubResolver{}, History: &memHistory{}}

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}
