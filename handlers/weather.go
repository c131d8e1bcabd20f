package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// weatherClient bounds how long an upstream lookup may hold a request
// goroutine.
var weatherClient = &http.Client{Timeout: 10 * time.Second}

// WeatherRequest is forwarded verbatim to OpenWeather. Either city or both
// lat and lon must be set.
type WeatherRequest struct {
	City     string   `json:"city"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Endpoint string   `json:"endpoint"` // "weather" | "forecast"
	Units    string   `json:"units"`    // "metric" | "imperial"
}

// WeatherProxy forwards the lookup to OpenWeather with the server-side API
// key and returns the upstream body and status unmodified. No caching, no
// retries.
func WeatherProxy(w http.ResponseWriter, r *http.Request) {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		writeJSON(w, http.StatusInternalServerError,
			map[string]string{"error": "Server misconfigured: missing OPENWEATHER_API_KEY"})
		return
	}

	var req WeatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.City == "" && (req.Lat == nil || req.Lon == nil) {
		writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "Provide either 'city' or both 'lat' and 'lon'."})
		return
	}

	base := "https://api.openweathermap.org/data/2.5/weather"
	if req.Endpoint == "forecast" {
		base = "https://api.openweathermap.org/data/2.5/forecast"
	}
	units := req.Units
	if units == "" {
		units = "metric"
	}

	params := url.Values{}
	params.Set("appid", apiKey)
	params.Set("units", units)
	if req.City != "" {
		params.Set("q", req.City)
	} else {
		params.Set("lat", strconv.FormatFloat(*req.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(*req.Lon, 'f', -1, 64))
	}

	resp, err := weatherClient.Get(base + "?" + params.Encode())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
