package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/models"
)

const resumesPath = "generated-resumes"

type Resumes struct {
	api Doer
}

func NewResumes(api Doer) *Resumes { return &Resumes{api: api} }

func resumePath(id int64) string { return resumesPath + "/" + strconv.FormatInt(id, 10) }

func (s *Resumes) List(ctx context.Context, f models.ResumeFilter) ([]models.GeneratedResume, error) {
	const op = "service.Resumes.List"

	env, err := call[[]models.GeneratedResume](ctx, s.api, apiclient.Request{Method: http.MethodGet, Path: resumesPath, Query: f.Query()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if env.Data == nil {
		return []models.GeneratedResume{}, nil
	}

	return *env.Data, nil
}

func (s *Resumes) Get(ctx context.Context, id int64) (*models.GeneratedResume, error) {
	const op = "service.Resumes.Get"

	env, err := call[models.GeneratedResume](ctx, s.api, apiclient.Request{Method: http.MethodGet, Path: resumePath(id)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%s: %w: CV no encontrado", op, ErrNotFound)
	}

	return env.Data, nil
}

func (s *Resumes) Create(ctx context.Context, req models.CreateResumeRequest) (*models.GeneratedResume, error) {
	const op = "service.Resumes.Create"

	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.post(ctx, op, resumesPath, req, false, "Error al crear CV")
}

func (s *Resumes) GenerateWithFreeText(ctx context.Context, req models.GenerateWithFreeTextRequest) (*models.GeneratedResume, error) {
	const op = "service.Resumes.GenerateWithFreeText"

	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.post(ctx, op, resumesPath+"/generate-with-text", req, true, "Error al generar CV")
}

// GenerateWithAI — тело произвольное, бэкенд сам определяет схему.
func (s *Resumes) GenerateWithAI(ctx context.Context, payload map[string]any) (*models.GeneratedResume, error) {
	const op = "service.Resumes.GenerateWithAI"

	return s.post(ctx, op, resumesPath+"/ai-generate", payload, false, "Error al generar CV con IA")
}

func (s *Resumes) Update(ctx context.Context, id int64, req models.UpdateResumeRequest) (*models.GeneratedResume, error) {
	const op = "service.Resumes.Update"

	env, err := call[models.GeneratedResume](ctx, s.api, apiclient.Request{Method: http.MethodPatch, Path: resumePath(id), Body: req})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}

	r, err := requireData(env, false, "Error al actualizar CV")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *Resumes) Delete(ctx context.Context, id int64) error {
	const op = "service.Resumes.Delete"

	if _, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: resumePath(id)}); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err))
	}

	return nil
}

// DownloadPDF возвращает байты PDF без разбора.
func (s *Resumes) DownloadPDF(ctx context.Context, id int64) ([]byte, error) {
	const op = "service.Resumes.DownloadPDF"

	res, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: resumePath(id) + "/download-pdf"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}

	return res.Body, nil
}

func (s *Resumes) post(ctx context.Context, op, path string, body any, strict bool, fallback string) (*models.GeneratedResume, error) {
	env, err := call[models.GeneratedResume](ctx, s.api, apiclient.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := requireData(env, strict, fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}
