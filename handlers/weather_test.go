package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWeatherClientHasTimeout(t *testing.T) {
	if weatherClient.Timeout == 0 {
		t.Fatal("outbound weather client has no timeout; a hung upstream would pin the request")
	}
}

func TestWeatherProxyRequiresLocation(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/weather", strings.NewReader(`{"endpoint":"weather"}`))
	WeatherProxy(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	// Latitude alone is not enough either
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/weather", strings.NewReader(`{"lat": 51.5}`))
	WeatherProxy(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("lat without lon: got %d, want 400", rec.Code)
	}
}

func TestWeatherProxyRequiresServerKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/weather", strings.NewReader(`{"city":"London"}`))
	WeatherProxy(rec, r)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rec.Code)
	}
}
