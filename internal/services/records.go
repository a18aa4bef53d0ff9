package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
)

// Column names of the jobs and candidates tables.
const (
	ColJobTitle       = "titulo"
	ColJobDescription = "descricao"
	ColJobAddress     = "Endereco"
	ColJobRequired    = "requisitos_obrigatorios"
	ColJobDesired     = "requisitos_desejaveis"
	ColJobOwner       = "usuario"

	ColCandidateJob        = "vaga"
	ColCandidateOwner      = "usuario"
	ColCandidateName       = "nome"
	ColCandidateStatus     = "status"
	ColCandidateCurriculum = "curriculo_url"
)

// Tables names the row store tables the record endpoints proxy to.
type Tables struct {
	Jobs       string
	Candidates string
	Schedules  string
}

type JobInput struct {
	Title       string  `json:"titulo"`
	Description string  `json:"descricao"`
	Address     string  `json:"endereco"`
	Required    string  `json:"requisitos_obrigatorios"`
	Desired     string  `json:"requisitos_desejaveis"`
	Owner       []int64 `json:"usuario"`
}

// CurriculumFile is one uploaded résumé.
type CurriculumFile struct {
	Name   string
	Reader io.Reader
}

type AllData struct {
	Jobs       []rowstore.Row `json:"jobs"`
	Candidates []rowstore.Row `json:"candidates"`
}

// RecordsService passes job, candidate and appointment records through to the
// row store. It carries no business rules beyond required fields.
type RecordsService struct {
	store    rowstore.Store
	tables   Tables
	uploader FileUploader
}

func NewRecordsService(store rowstore.Store, tables Tables, uploader FileUploader) *RecordsService {
	return &RecordsService{store: store, tables: tables, uploader: uploader}
}

func (s *RecordsService) CreateJob(ctx context.Context, in JobInput) (rowstore.Row, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || len(in.Owner) == 0 {
		return nil, validationError("titulo, descricao and usuario are required")
	}
	row, err := s.store.Insert(ctx, s.tables.Jobs, map[string]any{
		ColJobTitle:       in.Title,
		ColJobDescription: in.Description,
		ColJobAddress:     in.Address,
		ColJobRequired:    in.Required,
		ColJobDesired:     in.Desired,
		ColJobOwner:       in.Owner,
	})
	if err != nil {
		return nil, internalError("could not create job", err)
	}
	return row, nil
}

func (s *RecordsService) UpdateJob(ctx context.Context, jobID string, fields map[string]any) (rowstore.Row, error) {
	if strings.TrimSpace(jobID) == "" || len(fields) == 0 {
		return nil, validationError("job id and fields to update are required")
	}
	row, err := s.store.Update(ctx, s.tables.Jobs, jobID, fields)
	if err != nil {
		return nil, storeError("job", "could not update job", err)
	}
	return row, nil
}

func (s *RecordsService) DeleteJob(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return validationError("job id is required")
	}
	if err := s.store.Delete(ctx, s.tables.Jobs, jobID); err != nil {
		return storeError("job", "could not delete job", err)
	}
	return nil
}

func (s *RecordsService) UpdateCandidateStatus(ctx context.Context, candidateID string, status any) (rowstore.Row, error) {
	if strings.TrimSpace(candidateID) == "" || isBlank(status) {
		return nil, validationError("candidate id and status are required")
	}
	row, err := s.store.Update(ctx, s.tables.Candidates, candidateID, map[string]any{ColCandidateStatus: status})
	if err != nil {
		return nil, storeError("candidate", "could not update candidate status", err)
	}
	return row, nil
}

// ListSchedules returns the appointments recorded for userID.
func (s *RecordsService) ListSchedules(ctx context.Context, userID string) ([]rowstore.Row, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("userId is required")
	}
	rows, err := s.store.Find(ctx, s.tables.Schedules, rowstore.LinkRowHas(ColScheduleOwner, userID))
	if err != nil {
		return nil, internalError("could not load schedules", err)
	}
	return rows, nil
}

// LoadAll returns every job and candidate linked to userID.
func (s *RecordsService) LoadAll(ctx context.Context, userID string) (*AllData, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("userId is required")
	}
	jobs, err := s.store.Find(ctx, s.tables.Jobs, rowstore.LinkRowHas(ColJobOwner, userID))
	if err != nil {
		return nil, internalError("could not load jobs", err)
	}
	candidates, err := s.store.Find(ctx, s.tables.Candidates, rowstore.LinkRowHas(ColCandidateOwner, userID))
	if err != nil {
		return nil, internalError("could not load candidates", err)
	}
	return &AllData{Jobs: jobs, Candidates: candidates}, nil
}

// UploadCurriculums stores each file and creates a candidate row linked to the
// job and user. It stops at the first failure; rows already created stay.
func (s *RecordsService) UploadCurriculums(ctx context.Context, jobID, userID string, files []CurriculumFile) ([]rowstore.Row, error) {
	if len(files) == 0 {
		return nil, validationError("jobId, userId and curriculum files are required")
	}
	job, errJob := strconv.ParseInt(strings.TrimSpace(jobID), 10, 64)
	user, errUser := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if errJob != nil || errUser != nil {
		return nil, validationError("jobId, userId and curriculum files are required")
	}
	if s.uploader == nil {
		return nil, newError(ErrUnavailable, "file uploads are not configured", nil)
	}

	created := make([]rowstore.Row, 0, len(files))
	for _, f := range files {
		url, err := s.uploader.Upload(ctx, f.Reader, f.Name, CurriculumFolder)
		if err != nil {
			return created, internalError("failed to upload curriculum", err)
		}
		row, err := s.store.Insert(ctx, s.tables.Candidates, map[string]any{
			ColCandidateJob:        []int64{job},
			ColCandidateOwner:      []int64{user},
			ColCandidateName:       candidateName(f.Name),
			ColCandidateCurriculum: url,
		})
		if err != nil {
			return created, internalError("could not create candidate", err)
		}
		created = append(created, row)
	}
	return created, nil
}

func candidateName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func storeError(what, msg string, err error) error {
	if errors.Is(err, rowstore.ErrNotFound) {
		return newError(ErrNotFound, what+" not found", err)
	}
	return internalError(msg, err)
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}
