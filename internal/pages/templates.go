package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/javeriana-conecta/conecta-web/internal/models"
	"github.com/javeriana-conecta/conecta-web/internal/service"
)

const (
	defaultTemplateStyle   = "modern"
	defaultTemplateVersion = "1.0.0"
)

// TemplateConflictError — шаблон для этой карьеры уже есть. ExistingID равен 0,
// если найти существующий шаблон не удалось.
type TemplateConflictError struct {
	CareerCode string
	ExistingID int64
	Message    string
}

func (e *TemplateConflictError) Error() string {
	if e.ExistingID != 0 {
		return fmt.Sprintf("%s (ID existente: %d)", e.Message, e.ExistingID)
	}
	return e.Message
}

func (e *TemplateConflictError) Unwrap() error { return service.ErrTemplateExists }

// PreviewUploadError — шаблон сохранён, но превью не загрузилось.
type PreviewUploadError struct {
	Template *models.LatexTemplate
	Updated  bool
	Err      error
}

func (e *PreviewUploadError) Error() string {
	if e.Updated {
		return "Plantilla actualizada pero error al subir PDF: " + e.Err.Error()
	}
	return "Plantilla creada pero error al subir PDF: " + e.Err.Error()
}

func (e *PreviewUploadError) Unwrap() error { return e.Err }

// Preview — необязательный PDF превью для формы шаблона.
type Preview struct {
	Filename string
	Data     io.Reader
}

type TemplateForm struct {
	Name           string
	Faculty        string
	CareerCode     string
	Description    string
	LatexContent   string
	Style          string
	RequiredFields string
	IsFeatured     bool
	Version        string
	Preview        *Preview
}

// ParseRequiredFields разбирает список полей через запятую, пустые элементы
// отбрасываются.
func ParseRequiredFields(s string) []string {
	out := make([]string, 0)
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (f TemplateForm) Request() models.CreateTemplateRequest {
	style := f.Style
	if style == "" {
		style = defaultTemplateStyle
	}
	version := f.Version
	if version == "" {
		version = defaultTemplateVersion
	}
	featured := f.IsFeatured

	return models.CreateTemplateRequest{
		Name:           strings.TrimSpace(f.Name),
		Faculty:        strings.TrimSpace(f.Faculty),
		CareerCode:     strings.TrimSpace(f.CareerCode),
		Description:    f.Description,
		LatexContent:   f.LatexContent,
		Style:          style,
		RequiredFields: ParseRequiredFields(f.RequiredFields),
		IsFeatured:     &featured,
		Version:        version,
	}
}

func (p *Pages) Templates(ctx context.Context, f models.TemplateFilter) ([]models.LatexTemplate, error) {
	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	list, err := p.templates.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("pages.Templates: %w", err)
	}

	renderTemplates(p.out, list)
	return list, nil
}

func (p *Pages) TemplateDetail(ctx context.Context, id int64) (*models.LatexTemplate, error) {
	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	t, err := p.templates.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pages.TemplateDetail: %w", err)
	}

	renderTemplate(p.out, t)
	return t, nil
}

// TemplateCreate создаёт шаблон и, если задано, загружает превью. При
// дубликате карьеры возвращается *TemplateConflictError с ID существующего
// шаблона; его можно обновить через TemplateUpdateExisting.
func (p *Pages) TemplateCreate(ctx context.Context, form TemplateForm) (*models.LatexTemplate, error) {
	const op = "pages.TemplateCreate"

	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	req := form.Request()
	t, err := p.templates.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrTemplateExists) {
			return nil, p.conflict(ctx, req.CareerCode)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p.finishTemplate(ctx, t, form.Preview, false)
}

// TemplateUpdateExisting перезаписывает существующий шаблон данными формы.
func (p *Pages) TemplateUpdateExisting(ctx context.Context, id int64, form TemplateForm) (*models.LatexTemplate, error) {
	const op = "pages.TemplateUpdateExisting"

	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	req := form.Request()
	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t, err := p.templates.Update(ctx, id, models.UpdateFromCreate(req))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p.finishTemplate(ctx, t, form.Preview, true)
}

func (p *Pages) TemplateDelete(ctx context.Context, id int64) error {
	if _, err := p.requireUser(ctx); err != nil {
		return err
	}

	if err := p.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("pages.TemplateDelete: %w", err)
	}

	fmt.Fprintf(p.out, "Plantilla %d eliminada\n", id)
	return nil
}

func (p *Pages) conflict(ctx context.Context, careerCode string) error {
	ce := &TemplateConflictError{
		CareerCode: careerCode,
		Message:    fmt.Sprintf("Ya existe una plantilla para la carrera %s", careerCode),
	}

	existing, err := p.templates.FindByCareerCode(ctx, careerCode)
	if err == nil && existing != nil {
		ce.ExistingID = existing.ID
	}

	return ce
}

func (p *Pages) finishTemplate(ctx context.Context, t *models.LatexTemplate, pv *Preview, updated bool) (*models.LatexTemplate, error) {
	if pv != nil && pv.Data != nil {
		withPreview, err := p.templates.UploadPreviewPDF(ctx, t.ID, pv.Filename, pv.Data)
		if err != nil {
			return t, &PreviewUploadError{Template: t, Updated: updated, Err: err}
		}
		t = withPreview
	}

	if updated {
		fmt.Fprintf(p.out, "Plantilla %d actualizada\n", t.ID)
	} else {
		fmt.Fprintf(p.out, "Plantilla %d creada\n", t.ID)
	}
	renderTemplate(p.out, t)

	return t, nil
}
