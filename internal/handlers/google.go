package handlers

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnshRaj112/recruiter-gateway/internal/services"
)

const closePopupScript = "window.close();"

var (
	closePopupPage = []byte("<!DOCTYPE html><html><body><script>" + closePopupScript + "</script></body></html>")
	closePopupCSP  = "default-src 'none'; script-src 'sha256-" + scriptHash(closePopupScript) + "'"
)

func scriptHash(script string) string {
	sum := sha256.Sum256([]byte(script))
	return base64.StdEncoding.EncodeToString(sum[:])
}

type ConnectResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	IsConnected bool `json:"isConnected"`
}

type DisconnectRequest struct {
	UserID flexID `json:"userId"`
}

type CreateEventRequest struct {
	UserID    flexID                 `json:"userId"`
	EventData *services.EventData    `json:"eventData"`
	Candidate *services.CandidateRef `json:"candidate"`
	Job       *services.JobRef       `json:"job"`
}

type CreateEventResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink,omitempty"`
}

// GoogleConnect handles GET /google/auth/connect?userId=
func (h *Handler) GoogleConnect(w http.ResponseWriter, r *http.Request) {
	url, err := h.Authorization.ConnectURL(r.URL.Query().Get("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConnectResponse{URL: url})
}

// GoogleCallback handles GET /google/auth/callback. The popup is always closed;
// failures go to the operator sink only.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		h.Log.Info("google consent not granted",
			zap.String("error", denied),
			zap.String("user_id", q.Get("state")))
	}

	outcome, err := h.Authorization.HandleCallback(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		ev := services.CallbackEventFromError(correlationID(r), err, time.Now())
		if recErr := h.Events.Record(r.Context(), ev); recErr != nil {
			h.Log.Warn("failed to record oauth callback event",
				zap.String("correlation_id", ev.CorrelationID),
				zap.Error(recErr))
		}
	} else {
		h.Log.Info("google oauth callback handled",
			zap.String("outcome", string(outcome)),
			zap.String("user_id", q.Get("state")))
	}

	w.Header().Set("Content-Security-Policy", closePopupCSP)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(closePopupPage)
}

func correlationID(r *http.Request) string {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// GoogleDisconnect handles POST /google/auth/disconnect
func (h *Handler) GoogleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req DisconnectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Authorization.Disconnect(r.Context(), string(req.UserID)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Google account disconnected"})
}

// GoogleStatus handles GET /google/auth/status?userId=
func (h *Handler) GoogleStatus(w http.ResponseWriter, r *http.Request) {
	connected, err := h.Authorization.Status(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{IsConnected: connected})
}

// CreateCalendarEvent handles POST /google/calendar/create-event
func (h *Handler) CreateCalendarEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.Calendar.CreateEvent(r.Context(), services.CreateEventInput{
		UserID:    string(req.UserID),
		Event:     req.EventData,
		Candidate: req.Candidate,
		Job:       req.Job,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateEventResponse{
		Success:  true,
		Message:  "Event created",
		EventID:  created.EventID,
		HTMLLink: created.HTMLLink,
	})
}
