package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Payamchegini021/Melody-generator/internal/export"
	"github.com/Payamchegini021/Melody-generator/internal/generator"
	"github.com/Payamchegini021/Melody-generator/internal/logger"
	"github.com/Payamchegini021/Melody-generator/internal/metrics"
	"github.com/Payamchegini021/Melody-generator/internal/models"
	"github.com/Payamchegini021/Melody-generator/internal/playback"
	"github.com/Payamchegini021/Melody-generator/internal/store"
	"github.com/Payamchegini021/Melody-generator/internal/theory"
	"github.com/gin-gonic/gin"
)

const (
	defaultMeasures  = 4
	defaultRangeLow  = 55 // G3
	defaultRangeHigh = 79 // G5
	defaultScaleType = string(theory.ScaleMajor)
)

// MelodyHandler wires the generation engine, the store, and the exporters
// to the HTTP surface.
type MelodyHandler struct {
	gen        *generator.Generator
	melodies   store.Store
	cloudwatch *metrics.Client
}

func NewMelodyHandler(gen *generator.Generator, melodies store.Store, cloudwatch *metrics.Client) *MelodyHandler {
	return &MelodyHandler{
		gen:        gen,
		melodies:   melodies,
		cloudwatch: cloudwatch,
	}
}

type GenerateMelodyRequest struct {
	Measures      int     `json:"measures"`
	Complexity    float64 `json:"complexity"`
	RhythmDensity float64 `json:"rhythm_density"`
	RangeLow      int     `json:"range_low"`
	RangeHigh     int     `json:"range_high"`
	Root          int     `json:"root"`       // pitch class 0-11
	ScaleType     string  `json:"scale_type"` // major, minor, dorian, ...
	Name          string  `json:"name"`       // optional display name
	Train         bool    `json:"train"`      // feed the result back into the model
}

// Generate creates a new melody from the requested parameters, persists
// it, and returns it.
func (h *MelodyHandler) Generate(c *gin.Context) {
	var req GenerateMelodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Measures == 0 {
		req.Measures = defaultMeasures
	}
	if req.RangeLow == 0 && req.RangeHigh == 0 {
		req.RangeLow = defaultRangeLow
		req.RangeHigh = defaultRangeHigh
	}
	if req.ScaleType == "" {
		req.ScaleType = defaultScaleType
	}

	scale, err := theory.NewScale(req.Root, theory.ScaleType(req.ScaleType))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := models.GenerationParams{
		Measures:      req.Measures,
		Complexity:    req.Complexity,
		RhythmDensity: req.RhythmDensity,
		RangeLow:      req.RangeLow,
		RangeHigh:     req.RangeHigh,
		Scale:         scale,
	}

	start := time.Now()
	melody, err := h.gen.Generate(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	generationTime := time.Since(start)

	if req.Name != "" {
		melody.Name = req.Name
	}
	if req.Train {
		h.gen.TrainFromMelody(melody)
	}

	if err := h.melodies.Put(melody); err != nil {
		logger.Error("Failed to persist melody", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store melody"})
		return
	}

	fields := logger.WithContext(c)
	fields["melody_id"] = melody.ID
	fields["note_count"] = len(melody.Notes)
	fields["duration_ms"] = generationTime.Milliseconds()
	logger.Info("Melody generated", fields)

	h.cloudwatch.RecordGeneration(len(melody.Notes), h.gen.ModelSize(), generationTime)
	generationMetrics.RecordGeneration(c.Request.Context(), len(melody.Notes), h.gen.ModelSize(), generationTime)

	c.JSON(http.StatusCreated, melody)
}

// List returns all stored melodies, newest first.
func (h *MelodyHandler) List(c *gin.Context) {
	melodies, err := h.melodies.ListAll()
	if err != nil {
		logger.Error("Failed to list melodies", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list melodies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"melodies": melodies,
		"count":    len(melodies),
	})
}

// Get returns one melody by id.
func (h *MelodyHandler) Get(c *gin.Context) {
	melody, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, melody)
}

// Delete removes one melody by id.
func (h *MelodyHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.melodies.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Melody not found"})
			return
		}
		logger.Error("Failed to delete melody", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete melody"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Train feeds a stored melody back into the transition model.
func (h *MelodyHandler) Train(c *gin.Context) {
	melody, ok := h.lookup(c)
	if !ok {
		return
	}

	h.gen.TrainFromMelody(melody)

	c.JSON(http.StatusOK, gin.H{
		"melody_id":  melody.ID,
		"model_size": h.gen.ModelSize(),
	})
}

// Export renders a stored melody in the requested format
// (?format=midi|musicxml, midi by default).
func (h *MelodyHandler) Export(c *gin.Context) {
	melody, ok := h.lookup(c)
	if !ok {
		return
	}

	format := export.Format(c.DefaultQuery("format", string(export.FormatMIDI)))
	data, err := export.Encode(melody, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("%s.%s", melody.ID, format.FileExtension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}

const defaultScheduleBPM = 120

type scheduledEvent struct {
	Pitch      int     `json:"pitch"`
	Velocity   int     `json:"velocity"`
	AtMs       float64 `json:"at_ms"`
	DurationMs float64 `json:"duration_ms"`
}

// Schedule returns a stored melody as wall-clock playback events at the
// requested tempo (?bpm=, 120 by default). Clients drive their own MIDI
// or audio backend from the returned offsets.
func (h *MelodyHandler) Schedule(c *gin.Context) {
	melody, ok := h.lookup(c)
	if !ok {
		return
	}

	bpm, err := strconv.ParseFloat(c.DefaultQuery("bpm", strconv.Itoa(defaultScheduleBPM)), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bpm must be a number"})
		return
	}

	events, err := playback.Schedule(melody.Notes, bpm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduled := make([]scheduledEvent, len(events))
	for i, ev := range events {
		scheduled[i] = scheduledEvent{
			Pitch:      ev.Pitch,
			Velocity:   ev.Velocity,
			AtMs:       ev.At.Seconds() * 1000,
			DurationMs: ev.Duration.Seconds() * 1000,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"melody_id": melody.ID,
		"bpm":       bpm,
		"total_ms":  playback.TotalDuration(events).Seconds() * 1000,
		"events":    scheduled,
	})
}

func (h *MelodyHandler) lookup(c *gin.Context) (models.GeneratedMelody, bool) {
	id := c.Param("id")
	melody, err := h.melodies.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Melody not found"})
		} else {
			logger.Error("Failed to load melody", err, logger.WithContext(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load melody"})
		}
		return models.GeneratedMelody{}, false
	}
	return melody, true
}

var generationMetrics = metrics.NewSentryMetrics()
