package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"latticeflow/internal/render"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	writeJSON(w, map[string]interface{}{
		"step":       snap.Step,
		"width":      snap.Width,
		"height":     snap.Height,
		"totalMass":  snap.TotalMass,
		"maxSpeed":   snap.MaxSpeed,
		"stepMicros": snap.StepDuration.Microseconds(),
		"paused":     h.engine.IsPaused(),
		"unstable":   snap.Unstable,
		"sequence":   snap.Sequence,
	})
}

func (h *routerHandlers) handleGetField(w http.ResponseWriter, r *http.Request) {
	field, err := render.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.engine.Snapshot()
	var values []float64
	switch field {
	case render.FieldSpeed:
		values = snap.Speed
	case render.FieldVorticity:
		values = snap.Vorticity
	default:
		values = snap.Density
	}

	writeJSON(w, map[string]interface{}{
		"field":  field,
		"step":   snap.Step,
		"width":  snap.Width,
		"height": snap.Height,
		"values": values,
	})
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	field, err := render.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.engine.Snapshot()

	h.renderMu.Lock()
	defer h.renderMu.Unlock()
	if h.renderer == nil {
		h.renderer = render.NewFieldRenderer(snap.Width, snap.Height, h.frameScale)
		h.overlay = render.NewOverlay(h.renderer.Size())
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.EncodePNG(w, h.renderer, h.overlay, snap, field); err != nil {
		// Headers already went out; nothing useful left to send.
		return
	}
	RecordFrame()
}

func (h *routerHandlers) handleGetCell(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		writeError(w, "x and y query parameters are required integers", http.StatusBadRequest)
		return
	}

	snap := h.engine.Snapshot()
	if x < 0 || x >= snap.Width || y < 0 || y >= snap.Height {
		writeError(w, fmt.Sprintf("cell (%d,%d) outside %dx%d lattice", x, y, snap.Width, snap.Height), http.StatusBadRequest)
		return
	}

	c := y*snap.Width + x
	writeJSON(w, map[string]interface{}{
		"x":         x,
		"y":         y,
		"kind":      snap.Kinds[c].String(),
		"density":   snap.Density[c],
		"ux":        snap.VelocityX[c],
		"uy":        snap.VelocityY[c],
		"speed":     snap.Speed[c],
		"vorticity": snap.Vorticity[c],
	})
}

func (h *routerHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.engine.Pause()
	writeJSON(w, map[string]bool{"paused": true})
}

func (h *routerHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Resume(); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"paused": false})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
