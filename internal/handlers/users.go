package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recruiter-gateway/internal/services"
)

type ProfileUpdateRequest struct {
	Name      *string `json:"nome"`
	Company   *string `json:"empresa"`
	AvatarURL *string `json:"avatar_url"`
}

type PasswordChangeRequest struct {
	Password string `json:"password"`
}

// UpdateProfile handles PATCH /users/{userId}/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	profile, err := h.Identity.UpdateProfile(r.Context(), chi.URLParam(r, "userId"), services.ProfileUpdate{
		Name:      req.Name,
		Company:   req.Company,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, User: profile})
}

// ChangePassword handles PATCH /users/{userId}/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Identity.ChangePassword(r.Context(), chi.URLParam(r, "userId"), req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Password updated"})
}

// GetUser handles GET /users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Identity.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
