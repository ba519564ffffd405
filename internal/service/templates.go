package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/models"
)

const (
	templatesPath = "latex-templates"

	// MaxPreviewPDFSize — предел размера превью шаблона.
	MaxPreviewPDFSize = 10 << 20

	// Сообщение бэкенда о дубликате шаблона для карьеры.
	duplicateTemplateMarker = "Ya existe una plantilla para la carrera"
)

type Templates struct {
	api Doer
}

func NewTemplates(api Doer) *Templates { return &Templates{api: api} }

func templatePath(id int64, rest ...string) string {
	return strings.Join(append([]string{templatesPath, strconv.FormatInt(id, 10)}, rest...), "/")
}

// List — пустой data даёт пустой список.
func (s *Templates) List(ctx context.Context, f models.TemplateFilter) ([]models.LatexTemplate, error) {
	const op = "service.Templates.List"

	env, err := call[[]models.LatexTemplate](ctx, s.api, apiclient.Request{Method: http.MethodGet, Path: templatesPath, Query: f.Query()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if env.Data == nil {
		return []models.LatexTemplate{}, nil
	}

	return *env.Data, nil
}

func (s *Templates) Featured(ctx context.Context) ([]models.LatexTemplate, error) {
	const op = "service.Templates.Featured"

	env, err := call[[]models.LatexTemplate](ctx, s.api, apiclient.Request{Method: http.MethodGet, Path: templatesPath + "/featured"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if env.Data == nil {
		return []models.LatexTemplate{}, nil
	}

	return *env.Data, nil
}

func (s *Templates) Get(ctx context.Context, id int64) (*models.LatexTemplate, error) {
	const op = "service.Templates.Get"

	env, err := call[models.LatexTemplate](ctx, s.api, apiclient.Request{Method: http.MethodGet, Path: templatePath(id)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}
	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = "Plantilla no encontrada"
		}
		return nil, fmt.Errorf("%s: %w: %s", op, ErrNotFound, msg)
	}

	return env.Data, nil
}

// FindByCareerCode — шаблон с точным совпадением careerCode или ErrNotFound.
func (s *Templates) FindByCareerCode(ctx context.Context, code string) (*models.LatexTemplate, error) {
	const op = "service.Templates.FindByCareerCode"

	list, err := s.List(ctx, models.TemplateFilter{CareerCode: code})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range list {
		if list[i].CareerCode == code {
			return &list[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w: careerCode %s", op, ErrNotFound, code)
}

// Create — дубликат по careerCode возвращается как ErrTemplateExists.
func (s *Templates) Create(ctx context.Context, req models.CreateTemplateRequest) (*models.LatexTemplate, error) {
	const op = "service.Templates.Create"

	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	env, err := call[models.LatexTemplate](ctx, s.api, apiclient.Request{Method: http.MethodPost, Path: templatesPath, Body: req})
	if err != nil {
		if isDuplicateTemplate(apiclient.MessageOf(err)) {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrTemplateExists, apiclient.MessageOf(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if isDuplicateTemplate(env.Message) && !env.OK() {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrTemplateExists, env.Message)
	}

	t, err := requireData(env, true, "Error al crear plantilla")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Templates) Update(ctx context.Context, id int64, req models.UpdateTemplateRequest) (*models.LatexTemplate, error) {
	const op = "service.Templates.Update"

	env, err := call[models.LatexTemplate](ctx, s.api, apiclient.Request{Method: http.MethodPatch, Path: templatePath(id), Body: req})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}

	t, err := requireData(env, false, "Error al actualizar plantilla")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Templates) Delete(ctx context.Context, id int64) error {
	const op = "service.Templates.Delete"

	if _, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: templatePath(id)}); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err))
	}

	return nil
}

// UploadPreviewPDF отправляет превью (поле multipart "file"). Принимает только
// PDF по сигнатуре содержимого и не больше MaxPreviewPDFSize.
func (s *Templates) UploadPreviewPDF(ctx context.Context, id int64, filename string, r io.Reader) (*models.LatexTemplate, error) {
	const op = "service.Templates.UploadPreviewPDF"

	data, err := io.ReadAll(io.LimitReader(r, MaxPreviewPDFSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read file: %w", op, err)
	}
	if err := checkPDF(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	env, err := call[models.LatexTemplate](ctx, s.api, apiclient.Request{
		Method: http.MethodPost,
		Path:   templatePath(id, "preview-pdf"),
		Files:  []apiclient.File{{Field: "file", Name: filename, ContentType: "application/pdf", Data: data}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t, err := requireData(env, true, "Error al subir PDF")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func checkPDF(data []byte) error {
	if len(data) > MaxPreviewPDFSize {
		return ErrFileTooLarge
	}
	if http.DetectContentType(data) != "application/pdf" || !bytes.HasPrefix(data, []byte("%PDF-")) {
		return ErrNotPDF
	}
	return nil
}

func isDuplicateTemplate(msg string) bool {
	return strings.Contains(msg, duplicateTemplateMarker)
}
