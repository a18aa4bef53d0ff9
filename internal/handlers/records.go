package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
	"github.com/AnshRaj112/recruiter-gateway/internal/services"
)

type CandidateStatusRequest struct {
	Status any `json:"status"`
}

type SchedulesResponse struct {
	Success bool           `json:"success"`
	Results []rowstore.Row `json:"results"`
}

// CreateJob handles POST /jobs
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req services.JobInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	row, err := h.Records.CreateJob(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// UpdateJob handles PATCH /jobs/{jobId}
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		h.writeError(w, r, err)
		return
	}
	row, err := h.Records.UpdateJob(r.Context(), chi.URLParam(r, "jobId"), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// DeleteJob handles DELETE /jobs/{jobId}
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Records.DeleteJob(r.Context(), chi.URLParam(r, "jobId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCandidateStatus handles PATCH /candidates/{candidateId}/status
func (h *Handler) UpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	var req CandidateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	row, err := h.Records.UpdateCandidateStatus(r.Context(), chi.URLParam(r, "candidateId"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// ListSchedules handles GET /schedules/{userId}
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Records.ListSchedules(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SchedulesResponse{Success: true, Results: rows})
}

// LoadAll handles GET /data/all/{userId}
func (h *Handler) LoadAll(w http.ResponseWriter, r *http.Request) {
	data, err := h.Records.LoadAll(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
