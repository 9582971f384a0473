package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", value: "2024-02-29", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 with offset", value: "2024-03-01T01:30:00+03:00", want: time.Date(2024, 2, 29, 22, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "yesterday", wantErr: true},
		{name: "impossible day", value: "2023-02-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestHealthController_Check(t *testing.T) {
	up := func() bool { return true }
	down := func() bool { return false }

	tests := []struct {
		name       string
		db         func() bool
		cache      func() bool
		wantStatus string
		wantDB     string
		wantCache  string
	}{
		{name: "all up", db: up, cache: up, wantStatus: "ok", wantDB: "connected", wantCache: "connected"},
		{name: "cache disabled", db: up, cache: nil, wantStatus: "ok", wantDB: "connected", wantCache: "disabled"},
		{name: "cache down", db: up, cache: down, wantStatus: "ok", wantDB: "connected", wantCache: "disconnected"},
		{name: "database down", db: down, cache: nil, wantStatus: "degraded", wantDB: "disconnected", wantCache: "disabled"},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthController(tt.db, tt.cache).Check)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var body HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode health response: %v", err)
			}
			if body.Status != tt.wantStatus || body.Database != tt.wantDB || body.Cache != tt.wantCache {
				t.Errorf("got %+v, want status=%s database=%s cache=%s", body, tt.wantStatus, tt.wantDB, tt.wantCache)
			}
		})
	}
}
