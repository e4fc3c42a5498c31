package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Payamchegini021/Melody-generator/internal/generator"
	"github.com/Payamchegini021/Melody-generator/internal/metrics"
	"github.com/Payamchegini021/Melody-generator/internal/models"
	"github.com/Payamchegini021/Melody-generator/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *MelodyHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gen := generator.NewWithSource(rand.New(rand.NewSource(1)))
	melodies := store.NewMemoryStore()
	cloudwatch, err := metrics.NewClient(context.Background(), "test")
	require.NoError(t, err)

	handler := NewMelodyHandler(gen, melodies, cloudwatch)

	router := gin.New()
	router.POST("/api/v1/melodies", handler.Generate)
	router.GET("/api/v1/melodies", handler.List)
	router.GET("/api/v1/melodies/:id", handler.Get)
	router.DELETE("/api/v1/melodies/:id", handler.Delete)
	router.POST("/api/v1/melodies/:id/train", handler.Train)
	router.GET("/api/v1/melodies/:id/export", handler.Export)
	router.GET("/api/v1/melodies/:id/schedule", handler.Schedule)
	return router, handler
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func generateOne(t *testing.T, router *gin.Engine) models.GeneratedMelody {
	t.Helper()
	w := postJSON(t, router, "/api/v1/melodies", GenerateMelodyRequest{
		Measures:      2,
		Complexity:    0.4,
		RhythmDensity: 0.6,
		RangeLow:      60,
		RangeHigh:     72,
		Root:          0,
		ScaleType:     "major",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var melody models.GeneratedMelody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &melody))
	return melody
}

func TestGenerateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	melody := generateOne(t, router)
	assert.NotEmpty(t, melody.ID)
	assert.NotEmpty(t, melody.Notes)
	assert.Equal(t, 2, melody.Params.Measures)

	for _, note := range melody.Notes {
		assert.GreaterOrEqual(t, note.Pitch, 60)
		assert.LessOrEqual(t, note.Pitch, 72)
	}
}

func TestGenerateEndpointDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/melodies", map[string]any{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var melody models.GeneratedMelody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &melody))
	assert.Equal(t, defaultMeasures, melody.Params.Measures)
	assert.Equal(t, defaultRangeLow, melody.Params.RangeLow)
	assert.Equal(t, defaultRangeHigh, melody.Params.RangeHigh)
}

func TestGenerateEndpointInvalidScale(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/melodies", GenerateMelodyRequest{
		ScaleType: "klezmer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpointInvalidParams(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/melodies", GenerateMelodyRequest{
		Measures:  2,
		RangeLow:  80,
		RangeHigh: 60,
		ScaleType: "major",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	melody := generateOne(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listResponse struct {
		Melodies []models.GeneratedMelody `json:"melodies"`
		Count    int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResponse))
	assert.Equal(t, 1, listResponse.Count)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	melody := generateOne(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/melodies/"+melody.ID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/melodies/"+melody.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrainEndpoint(t *testing.T) {
	router, handler := newTestRouter(t)
	melody := generateOne(t, router)
	before := handler.gen.ModelSize()

	w := postJSON(t, router, "/api/v1/melodies/"+melody.ID+"/train", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MelodyID  string `json:"melody_id"`
		ModelSize int    `json:"model_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, melody.ID, resp.MelodyID)
	assert.GreaterOrEqual(t, resp.ModelSize, before)
}

func TestScheduleEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	melody := generateOne(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/schedule", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		MelodyID string  `json:"melody_id"`
		BPM      float64 `json:"bpm"`
		TotalMs  float64 `json:"total_ms"`
		Events   []struct {
			Pitch      int     `json:"pitch"`
			Velocity   int     `json:"velocity"`
			AtMs       float64 `json:"at_ms"`
			DurationMs float64 `json:"duration_ms"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, melody.ID, resp.MelodyID)
	assert.Equal(t, 120.0, resp.BPM)
	require.Len(t, resp.Events, len(melody.Notes))

	// At 120 bpm one beat is 500ms, so offsets are beat positions scaled.
	for i, ev := range resp.Events {
		assert.Equal(t, melody.Notes[i].Pitch, ev.Pitch)
		assert.InDelta(t, melody.Notes[i].StartBeats*500, ev.AtMs, 1e-6)
		assert.InDelta(t, melody.Notes[i].DurationBeats*500, ev.DurationMs, 1e-6)
	}
	assert.Greater(t, resp.TotalMs, 0.0)

	// Half tempo doubles every offset.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/schedule?bpm=60", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Invalid tempos are client errors.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/schedule?bpm=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/schedule?bpm=fast", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	melody := generateOne(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("MThd"), w.Body.Bytes()[:4])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/export?format=musicxml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<score-partwise")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/melodies/"+melody.ID+"/export?format=wav", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
