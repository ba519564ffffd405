// pages — экраны CLI conecta: каждая операция проверяет сессию, вызывает
// доменные сервисы и печатает результат в out.
package pages

import (
	"context"
	"errors"
	"io"

	"github.com/javeriana-conecta/conecta-web/internal/models"
	"github.com/javeriana-conecta/conecta-web/internal/session"
)

// ErrLoginRequired — экран требует входа, а сессии нет.
var ErrLoginRequired = errors.New("login required")

type TemplateService interface {
	List(ctx context.Context, f models.TemplateFilter) ([]models.LatexTemplate, error)
	Featured(ctx context.Context) ([]models.LatexTemplate, error)
	Get(ctx context.Context, id int64) (*models.LatexTemplate, error)
	FindByCareerCode(ctx context.Context, code string) (*models.LatexTemplate, error)
	Create(ctx context.Context, req models.CreateTemplateRequest) (*models.LatexTemplate, error)
	Update(ctx context.Context, id int64, req models.UpdateTemplateRequest) (*models.LatexTemplate, error)
	Delete(ctx context.Context, id int64) error
	UploadPreviewPDF(ctx context.Context, id int64, filename string, r io.Reader) (*models.LatexTemplate, error)
}

type ResumeService interface {
	List(ctx context.Context, f models.ResumeFilter) ([]models.GeneratedResume, error)
	Get(ctx context.Context, id int64) (*models.GeneratedResume, error)
	GenerateWithFreeText(ctx context.Context, req models.GenerateWithFreeTextRequest) (*models.GeneratedResume, error)
	Delete(ctx context.Context, id int64) error
	DownloadPDF(ctx context.Context, id int64) ([]byte, error)
}

type Pages struct {
	session   *session.Provider
	templates TemplateService
	resumes   ResumeService
	out       io.Writer
}

func New(s *session.Provider, t TemplateService, r ResumeService, out io.Writer) *Pages {
	if out == nil {
		out = io.Discard
	}
	return &Pages{session: s, templates: t, resumes: r, out: out}
}

// requireUser — общий гейт экранов: дождаться Init и проверить пользователя.
func (p *Pages) requireUser(ctx context.Context) (*models.User, error) {
	if p.session.Loading() {
		p.session.Init(ctx)
	}

	u := p.session.GetUser()
	if u == nil {
		return nil, ErrLoginRequired
	}

	return u, nil
}
