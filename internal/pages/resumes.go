package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/javeriana-conecta/conecta-web/internal/models"
)

var (
	// ErrEmptyResume — не заполнено ни одно поле и нет свободного текста.
	ErrEmptyResume = errors.New("Debes completar al menos los campos requeridos o proporcionar texto libre")
	// ErrNoUserID — в сессии нет ID пользователя.
	ErrNoUserID = errors.New("No se pudo obtener la información del usuario. Por favor, inicia sesión nuevamente.")
)

type ResumeForm struct {
	TemplateID        int64
	Fields            map[string]string
	FreeText          string
	CustomTitle       string
	AdditionalContext string
}

// FieldKey — ключ поля формы: нижний регистр, пробелы заменены на "_".
func FieldKey(field string) string {
	return strings.Join(strings.Fields(strings.ToLower(field)), "_")
}

// ComposeFreeText собирает "поле: значение" в порядке required и добавляет
// свободный текст через пустую строку. Значения ищутся по имени поля и по FieldKey.
func ComposeFreeText(required []string, fields map[string]string, free string) string {
	lines := make([]string, 0, len(required))
	for _, f := range required {
		v, ok := fields[f]
		if !ok {
			v = fields[FieldKey(f)]
		}
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, f+": "+v)
		}
	}

	out := strings.Join(lines, "\n")
	if free = strings.TrimSpace(free); free != "" {
		if out != "" {
			out += "\n\n"
		}
		out += free
	}

	return out
}

func (p *Pages) Resumes(ctx context.Context, f models.ResumeFilter) ([]models.GeneratedResume, error) {
	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	list, err := p.resumes.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("pages.Resumes: %w", err)
	}

	renderResumes(p.out, list)
	return list, nil
}

func (p *Pages) ResumeDetail(ctx context.Context, id int64) (*models.GeneratedResume, error) {
	if _, err := p.requireUser(ctx); err != nil {
		return nil, err
	}

	r, err := p.resumes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pages.ResumeDetail: %w", err)
	}

	renderResume(p.out, r)
	return r, nil
}

// ResumeNew генерирует резюме по шаблону из полей формы и свободного текста.
func (p *Pages) ResumeNew(ctx context.Context, form ResumeForm) (*models.GeneratedResume, error) {
	const op = "pages.ResumeNew"

	u, err := p.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, ErrNoUserID
	}

	t, err := p.templates.Get(ctx, form.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	text := ComposeFreeText(t.RequiredFields, form.Fields, form.FreeText)
	if text == "" {
		return nil, ErrEmptyResume
	}

	r, err := p.resumes.GenerateWithFreeText(ctx, models.GenerateWithFreeTextRequest{
		UserID:            u.ID,
		TemplateID:        t.ID,
		UserFreeText:      text,
		CustomTitle:       strings.TrimSpace(form.CustomTitle),
		AdditionalContext: strings.TrimSpace(form.AdditionalContext),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fmt.Fprintf(p.out, "CV %d generado\n", r.ID)
	renderResume(p.out, r)

	return r, nil
}

// DownloadName — имя файла для скачанного PDF.
func DownloadName(r *models.GeneratedResume) string {
	title := strings.Map(func(c rune) rune {
		if c == '/' || c == '\\' || c == os.PathSeparator {
			return '_'
		}
		return c
	}, r.Title)

	return fmt.Sprintf("cv-%s-%d.pdf", title, r.ID)
}

// ResumeDownload сохраняет PDF в dir и возвращает путь к файлу.
func (p *Pages) ResumeDownload(ctx context.Context, id int64, dir string) (string, error) {
	const op = "pages.ResumeDownload"

	if _, err := p.requireUser(ctx); err != nil {
		return "", err
	}

	r, err := p.resumes.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	data, err := p.resumes.DownloadPDF(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, DownloadName(r))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: write: %w", op, err)
	}

	fmt.Fprintf(p.out, "PDF guardado en %s\n", path)
	return path, nil
}

func (p *Pages) ResumeDelete(ctx context.Context, id int64) error {
	if _, err := p.requireUser(ctx); err != nil {
		return err
	}

	if err := p.resumes.Delete(ctx, id); err != nil {
		return fmt.Errorf("pages.ResumeDelete: %w", err)
	}

	fmt.Fprintf(p.out, "CV %d eliminado\n", id)
	return nil
}
