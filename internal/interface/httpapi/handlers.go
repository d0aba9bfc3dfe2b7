// Package httpapi exposes the tracking core over a thin JSON boundary.
// It carries no authentication or session handling; the caller supplies
// the user identity with each request.
package httpapi

import (
	"encoding/json"
	"net/http"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/usecase"
	"seacargos-service/pkg/logger"
)

// Handler wires the pipeline, reconciler and presenter to HTTP routes.
type Handler struct {
	pipeline   *usecase.TrackingPipeline
	reconciler *usecase.ScheduleReconciler
	presenter  *usecase.DashboardPresenter
	logger     logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	pipeline *usecase.TrackingPipeline,
	reconciler *usecase.ScheduleReconciler,
	presenter *usecase.DashboardPresenter,
	logger logger.Logger,
) *Handler {
	return &Handler{
		pipeline:   pipeline,
		reconciler: reconciler,
		presenter:  presenter,
		logger:     logger,
	}
}

// RegisterRoutes attaches the API routes to a mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tracking", h.createTracking)
	mux.HandleFunc("POST /api/tracking/update", h.updateTracking)
	mux.HandleFunc("GET /api/summary", h.summary)
	mux.HandleFunc("GET /api/tracking", h.scheduleTable)
	mux.HandleFunc("GET /api/tracking/{bkgNo}", h.recordDetails)
}

type createRequest struct {
	Number       string `json:"number"`
	Line         string `json:"line"`
	User         string `json:"user"`
	RefID        string `json:"refId"`
	RequestedETA string `json:"requestedETA"`
}

func (h *Handler) createTracking(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query, err := entity.ParseShipmentQuery(req.Number, req.Line, req.User, req.RefID, req.RequestedETA)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.Run(r.Context(), *query)
	writeJSON(w, http.StatusOK, map[string]string{
		"outcome": string(result.Outcome),
		"message": result.Message,
	})
}

func (h *Handler) updateTracking(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	var err error
	if bkgNo := r.URL.Query().Get("bkgNo"); bkgNo != "" {
		err = h.reconciler.RunRecordUpdate(r.Context(), user, bkgNo)
	} else {
		err = h.reconciler.RunUserUpdate(r.Context(), user)
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	summary, err := h.presenter.Summary(r.Context(), user)
	if err != nil {
		h.logger.Error("Summary query failed", "user", user, "error", err)
		writeError(w, http.StatusServiceUnavailable, "summary unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    summary.Active,
		"arrived":   summary.Arrived,
		"total":     summary.Total,
		"updatedOn": summary.UpdatedOn,
	})
}

func (h *Handler) scheduleTable(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	rows, err := h.presenter.ScheduleTable(r.Context(), user)
	if err != nil {
		h.logger.Error("Schedule table query failed", "user", user, "error", err)
		writeError(w, http.StatusServiceUnavailable, "tracking data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) recordDetails(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	details, err := h.presenter.RecordDetails(r.Context(), user, r.PathValue("bkgNo"))
	if err != nil {
		h.logger.Error("Record details query failed", "user", user, "error", err)
		writeError(w, http.StatusServiceUnavailable, "tracking data unavailable")
		return
	}
	if details == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
