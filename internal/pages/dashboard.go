package pages

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/javeriana-conecta/conecta-web/internal/models"
)

const (
	dashboardTemplates = 3
	dashboardResumes   = 5
)

type DashboardView struct {
	User      models.User
	Templates []models.LatexTemplate
	Resumes   []models.GeneratedResume
}

// Dashboard загружает избранные шаблоны и резюме параллельно; ошибка любой
// из загрузок отменяет вторую.
func (p *Pages) Dashboard(ctx context.Context) (*DashboardView, error) {
	u, err := p.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var (
		templates []models.LatexTemplate
		resumes   []models.GeneratedResume
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		templates, err = p.templates.Featured(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		resumes, err = p.resumes.List(gctx, models.ResumeFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pages.Dashboard: %w", err)
	}

	v := &DashboardView{
		User:      *u,
		Templates: head(templates, dashboardTemplates),
		Resumes:   head(resumes, dashboardResumes),
	}

	fmt.Fprintf(p.out, "Hola, %s\n\nPlantillas destacadas\n", displayName(u))
	renderTemplates(p.out, v.Templates)
	fmt.Fprintln(p.out, "\nCVs recientes")
	renderResumes(p.out, v.Resumes)

	return v, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
