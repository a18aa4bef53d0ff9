package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/AnshRaj112/recruiter-gateway/internal/models"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
	"github.com/AnshRaj112/recruiter-gateway/internal/services"
)

const (
	maxAvatarSize      = 10 << 20
	maxCurriculumsSize = 32 << 20
)

type AvatarResponse struct {
	Success   bool            `json:"success"`
	AvatarURL string          `json:"avatar_url"`
	User      *models.Profile `json:"user"`
}

// UploadAvatar handles POST /upload-avatar (multipart: avatar, userId)
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize+1<<20)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "avatar file and userId are required")
		return
	}
	userID := strings.TrimSpace(r.FormValue("userId"))
	file, header, err := r.FormFile("avatar")
	if err != nil || userID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "avatar file and userId are required")
		return
	}
	defer file.Close()

	if h.Uploader == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "file uploads are not configured")
		return
	}

	if _, err := h.Identity.GetProfile(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	url, err := h.Uploader.Upload(r.Context(), file, header.Filename, services.AvatarFolder)
	if err != nil {
		h.writeError(w, r, &services.Error{Kind: services.ErrInternal, Message: "failed to upload avatar", Err: err})
		return
	}

	profile, err := h.Identity.UpdateProfile(r.Context(), userID, services.ProfileUpdate{AvatarURL: &url})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvatarResponse{Success: true, AvatarURL: url, User: profile})
}

type CurriculumsResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Candidates []rowstore.Row `json:"candidates"`
}

// UploadCurriculums handles POST /upload-curriculums (multipart: curriculumFiles, jobId, userId)
func (h *Handler) UploadCurriculums(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCurriculumsSize+1<<20)
	if err := r.ParseMultipartForm(maxCurriculumsSize); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "jobId, userId and curriculum files are required")
		return
	}

	headers := r.MultipartForm.File["curriculumFiles"]
	files := make([]services.CurriculumFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "could not read "+fh.Filename)
			return
		}
		defer f.Close()
		files = append(files, services.CurriculumFile{Name: fh.Filename, Reader: f})
	}

	created, err := h.Records.UploadCurriculums(r.Context(), r.FormValue("jobId"), r.FormValue("userId"), files)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CurriculumsResponse{
		Success:    true,
		Message:    fmt.Sprintf("%d curriculum(s) uploaded", len(created)),
		Candidates: created,
	})
}
