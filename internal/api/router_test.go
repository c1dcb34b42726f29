package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noszczynski/bike-stats-sub000/internal/config"
	"github.com/noszczynski/bike-stats-sub000/internal/database"
	"github.com/noszczynski/bike-stats-sub000/internal/fitfile/fittest"
	"github.com/noszczynski/bike-stats-sub000/internal/handler"
)

const testSecret = "router-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	cfg := &config.Config{
		JWTSecret:        testSecret,
		UploadMaxBytes:   1 << 20,
		UploadRateLimit:  100,
		UploadRateWindow: time.Minute,
		InsertBatchSize:  50,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return &testServer{t: t, router: SetupRouter(cfg, conn, nil), token: tokenFor(t, "rider-1")}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get("Authorization") == "" && s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) upload(activityID int64, data []byte) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(handler.UploadFormField, "ride.fit")
	require.NoError(s.t, err)
	_, err = part.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/fit", activityID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (s *testServer) createActivity() int64 {
	s.t.Helper()
	w, env := s.json(http.MethodPost, "/api/v1/activities", map[string]string{"name": "Evening ride"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func rideFile() []byte {
	samples := make([]fittest.Sample, 31)
	for i := range samples {
		samples[i] = fittest.Sample{
			Offset:    time.Duration(i) * time.Second,
			Lat:       50.06 + float64(i)*0.0001,
			Long:      19.94,
			AltitudeM: 210,
			DistanceM: float64(i) * 10,
			SpeedMS:   10,
			HeartRate: uint8(130 + i),
		}
	}
	return fittest.Activity(fittest.Ride{
		Start:   time.Date(2024, 5, 4, 17, 0, 0, 0, time.UTC),
		Samples: samples,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)
	s.token = ""
	w, env := s.json(http.MethodGet, "/api/v1/activities", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.Code)
}

func TestActivityEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createActivity()

	w, env := s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)

	w, env = s.json(http.MethodGet, "/api/v1/activities?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	w, _ = s.json(http.MethodPost, "/api/v1/activities", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.json(http.MethodGet, "/api/v1/activities/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Another user's activity looks absent.
	s.token = tokenFor(t, "rider-2")
	w, _ = s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadFlow(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createActivity()

	w, env := s.upload(id, rideFile())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		TrackpointCount int `json:"trackpoint_count"`
		LapCount        int `json:"lap_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 31, result.TrackpointCount)
	assert.Equal(t, 1, result.LapCount)

	w, env = s.upload(id, rideFile())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)

	w, env = s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d/trackpoints?skip_empty=true", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var points struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &points))
	assert.Equal(t, 31, points.Total)

	w, _ = s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d/trackpoints/export", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.ParquetContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "PAR1", w.Body.String()[:4])

	w, _ = s.json(http.MethodDelete, fmt.Sprintf("/api/v1/activities/%d/fit", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.upload(id, rideFile())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.UploadMaxBytes = 4096 })
	id := s.createActivity()

	w, _ := s.upload(id, []byte("definitely not a FIT file"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.upload(id, fittest.New().Bytes())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.upload(id, bytes.Repeat([]byte{0}, 8192))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w, _ = s.upload(id+100, rideFile())
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/fit", id), nil)
	w = s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.UploadRateLimit = 1 })
	id := s.createActivity()

	w, _ := s.upload(id, []byte("garbage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.upload(id, rideFile())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLapAndZoneEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.createActivity()

	w, _ := s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d/zones", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.upload(id, rideFile())
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.json(http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/laps/generate", id), map[string]float64{"distance_m": 150})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var generated []struct {
		LapNumber int     `json:"lap_number"`
		DistanceM float64 `json:"distance_m"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	require.Len(t, generated, 2)
	assert.Equal(t, 2, generated[1].LapNumber)

	w, _ = s.json(http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/laps/generate", id), map[string]float64{"distance_m": 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.json(http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/laps/generate", id), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d/laps", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	assert.Len(t, generated, 2)

	w, _ = s.json(http.MethodPut, "/api/v1/settings/zones", map[string]int{
		"zone_1_max": 140, "zone_2_max": 150, "zone_3_max": 155, "zone_4_max": 158,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.json(http.MethodGet, fmt.Sprintf("/api/v1/activities/%d/zones", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Zone1 struct {
			Seconds float64 `json:"seconds"`
		} `json:"zone_1"`
		TotalSeconds float64 `json:"total_seconds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 31.0, summary.TotalSeconds)
	assert.Equal(t, 10.0, summary.Zone1.Seconds)
}

func TestSettingsValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := s.json(http.MethodPut, "/api/v1/settings/zones", map[string]int{
		"zone_1_max": 160, "zone_2_max": 150, "zone_3_max": 170, "zone_4_max": 180,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.json(http.MethodGet, "/api/v1/settings/zones", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"zone_1_max":0,"zone_2_max":0,"zone_3_max":0,"zone_4_max":0}`, string(env.Data))
}
