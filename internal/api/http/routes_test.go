package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reefwatch/dhw-dashboard/internal/dashboard"
	"github.com/reefwatch/dhw-dashboard/internal/regions"
	"github.com/reefwatch/dhw-dashboard/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *dashboard.Service) {
	t.Helper()

	set, err := regions.Load(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("load embedded regions: %v", err)
	}

	memStore := store.NewMemoryStore(10, time.Hour)
	svc := dashboard.NewService(set, memStore, nil, nil)

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app, svc
}

func TestExceedanceEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exceedance?dhw=20.0", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var payload struct {
		DHW          float64 `json:"dhw"`
		WindowsWeeks [3]int  `json:"windowsWeeks"`
		Regions      []struct {
			Name       string     `json:"name"`
			ThresholdC float64    `json:"thresholdC"`
			Values     [3]float64 `json:"values"`
		} `json:"regions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if payload.WindowsWeeks != [3]int{12, 8, 4} {
		t.Fatalf("expected window order [12 8 4], got %v", payload.WindowsWeeks)
	}
	if len(payload.Regions) != 4 {
		t.Fatalf("expected 4 regions, got %d", len(payload.Regions))
	}
	if payload.Regions[0].Name != "Far North" {
		t.Fatalf("expected first region Far North, got %s", payload.Regions[0].Name)
	}

	want := [3]float64{30.4394, 31.2694, 33.7694}
	for i := range want {
		if diff := payload.Regions[0].Values[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("Far North value %d: expected %v, got %v", i, want[i], payload.Regions[0].Values[i])
		}
	}
}

func TestExceedanceValidation(t *testing.T) {
	app, svc := newTestApp(t)

	// Seed a valid estimate first.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exceedance?dhw=8", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	for _, q := range []string{"", "dhw=abc", "dhw=Inf"} {
		target := "/api/v1/exceedance"
		if q != "" {
			target += "?" + q
		}
		req = httptest.NewRequest(http.MethodGet, target, nil)
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("query %q: expected status %d, got %d", q, http.StatusBadRequest, resp.StatusCode)
		}
	}

	// Invalid requests must not disturb the last valid estimate.
	latest, err := svc.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.DHW != 8 {
		t.Fatalf("expected last valid DHW 8, got %v", latest.DHW)
	}
}

func TestDashboardFallsBackToLatest(t *testing.T) {
	app, _ := newTestApp(t)

	// No estimate yet.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	// Compute one, then fetch without a dhw parameter.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?dhw=16", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var snap dashboard.Snapshot
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.DHW != 16 {
		t.Fatalf("expected latest DHW 16, got %v", snap.DHW)
	}
	if snap.Regions[0].Label == "" {
		t.Fatal("expected rendered region labels")
	}
}

func TestRegionsEndpointServesGeoJSON(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/regions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
			Geometry   struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &fc); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Fatalf("expected FeatureCollection, got %q", fc.Type)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("expected 4 features, got %d", len(fc.Features))
	}
	if name, _ := fc.Features[0].Properties["name"].(string); name != "Far North" {
		t.Fatalf("expected first feature Far North, got %q", name)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing range parameters should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Compute two estimates, then query a window covering now.
	for _, q := range []string{"dhw=4", "dhw=12"} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/exceedance?"+q, nil)
		if _, err := app.Test(req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	from := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	to := time.Now().UTC().Add(time.Minute).Format(time.RFC3339)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/history?from="+from+"&to="+to, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Snapshots []dashboard.Snapshot `json:"snapshots"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(payload.Snapshots))
	}
}
