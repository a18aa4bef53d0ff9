package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/recruiter-gateway/internal/handlers"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/health", handlers.Health)

	// Identity
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
	r.Get("/users/{userId}", h.GetUser)
	r.Patch("/users/{userId}/profile", h.UpdateProfile)
	r.Patch("/users/{userId}/password", h.ChangePassword)
	r.Post("/upload-avatar", h.UploadAvatar)

	// Google authorization and calendar
	r.Get("/google/auth/connect", h.GoogleConnect)
	r.Get("/google/auth/callback", h.GoogleCallback)
	r.Post("/google/auth/disconnect", h.GoogleDisconnect)
	r.Get("/google/auth/status", h.GoogleStatus)
	r.Post("/google/calendar/create-event", h.CreateCalendarEvent)

	// Record proxies
	r.Post("/jobs", h.CreateJob)
	r.Patch("/jobs/{jobId}", h.UpdateJob)
	r.Delete("/jobs/{jobId}", h.DeleteJob)
	r.Patch("/candidates/{candidateId}/status", h.UpdateCandidateStatus)
	r.Post("/upload-curriculums", h.UploadCurriculums)
	r.Get("/data/all/{userId}", h.LoadAll)
	r.Get("/schedules/{userId}", h.ListSchedules)
}
