package pages

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javeriana-conecta/conecta-web/internal/models"
	"github.com/javeriana-conecta/conecta-web/internal/service"
	"github.com/javeriana-conecta/conecta-web/internal/session"
)

type fakeAuth struct {
	user *models.User
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return &models.AuthResponse{AccessToken: "A", RefreshToken: "R", User: models.User{ID: 7, Email: req.Email}}, nil
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return &models.AuthResponse{AccessToken: "A", RefreshToken: "R", User: models.User{ID: 8, Name: req.Name}}, nil
}

func (f *fakeAuth) Logout(context.Context) error { return nil }

func (f *fakeAuth) Profile(context.Context) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("no profile")
	}
	u := *f.user
	return &u, nil
}

type fakeTokens struct{ has bool }

func (f *fakeTokens) HasAccessToken(context.Context) bool { return f.has }
func (f *fakeTokens) Clear(context.Context) error {
	f.has = false
	return nil
}

type fakeTemplates struct {
	mu        sync.Mutex
	list      []models.LatexTemplate
	featured  []models.LatexTemplate
	byID      map[int64]*models.LatexTemplate
	createErr error
	uploadErr error
	created   []models.CreateTemplateRequest
	updated   map[int64]models.UpdateTemplateRequest
	uploaded  []int64
	deleted   []int64
}

func (f *fakeTemplates) List(context.Context, models.TemplateFilter) ([]models.LatexTemplate, error) {
	return f.list, nil
}

func (f *fakeTemplates) Featured(context.Context) ([]models.LatexTemplate, error) {
	return f.featured, nil
}

func (f *fakeTemplates) Get(_ context.Context, id int64) (*models.LatexTemplate, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, service.ErrNotFound
}

func (f *fakeTemplates) FindByCareerCode(_ context.Context, code string) (*models.LatexTemplate, error) {
	for _, t := range f.byID {
		if t.CareerCode == code {
			return t, nil
		}
	}
	return nil, service.ErrNotFound
}

func (f *fakeTemplates) Create(_ context.Context, req models.CreateTemplateRequest) (*models.LatexTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &models.LatexTemplate{ID: 100, Name: req.Name, CareerCode: req.CareerCode, RequiredFields: req.RequiredFields}, nil
}

func (f *fakeTemplates) Update(_ context.Context, id int64, req models.UpdateTemplateRequest) (*models.LatexTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[int64]models.UpdateTemplateRequest{}
	}
	f.updated[id] = req
	return &models.LatexTemplate{ID: id, Name: *req.Name}, nil
}

func (f *fakeTemplates) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTemplates) UploadPreviewPDF(_ context.Context, id int64, _ string, r io.Reader) (*models.LatexTemplate, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.uploaded = append(f.uploaded, id)
	return &models.LatexTemplate{ID: id, PreviewPDFURL: "https://cdn/preview.pdf"}, nil
}

type fakeResumes struct {
	list      []models.GeneratedResume
	byID      map[int64]*models.GeneratedResume
	pdf       []byte
	generated []models.GenerateWithFreeTextRequest
	deleted   []int64
}

func (f *fakeResumes) List(context.Context, models.ResumeFilter) ([]models.GeneratedResume, error) {
	return f.list, nil
}

func (f *fakeResumes) Get(_ context.Context, id int64) (*models.GeneratedResume, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, service.ErrNotFound
}

func (f *fakeResumes) GenerateWithFreeText(_ context.Context, req models.GenerateWithFreeTextRequest) (*models.GeneratedResume, error) {
	f.generated = append(f.generated, req)
	return &models.GeneratedResume{ID: 55, TemplateID: req.TemplateID, Title: req.CustomTitle, GenerationStatus: models.StatusCompleted}, nil
}

func (f *fakeResumes) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeResumes) DownloadPDF(context.Context, int64) ([]byte, error) {
	return f.pdf, nil
}

func newPages(t *testing.T, user *models.User, tpl *fakeTemplates, res *fakeResumes) (*Pages, *bytes.Buffer) {
	t.Helper()

	if tpl == nil {
		tpl = &fakeTemplates{}
	}
	if res == nil {
		res = &fakeResumes{}
	}

	s := session.New(&fakeAuth{user: user}, &fakeTokens{has: user != nil})
	out := &bytes.Buffer{}
	return New(s, tpl, res, out), out
}

func TestPages_RequireLogin(t *testing.T) {
	t.Parallel()

	p, _ := newPages(t, nil, nil, nil)
	ctx := context.Background()

	_, err := p.Dashboard(ctx)
	require.ErrorIs(t, err, ErrLoginRequired)
	_, err = p.Templates(ctx, models.TemplateFilter{})
	require.ErrorIs(t, err, ErrLoginRequired)
	_, err = p.Resumes(ctx, models.ResumeFilter{})
	require.ErrorIs(t, err, ErrLoginRequired)
	_, err = p.Profile(ctx)
	require.ErrorIs(t, err, ErrLoginRequired)
	require.ErrorIs(t, p.TemplateDelete(ctx, 1), ErrLoginRequired)
	require.ErrorIs(t, p.ResumeDelete(ctx, 1), ErrLoginRequired)
}

func TestPages_LoginThenProfile(t *testing.T) {
	t.Parallel()

	p, out := newPages(t, nil, nil, nil)
	ctx := context.Background()

	_, err := p.Login(ctx, models.LoginRequest{Email: "ana@javeriana.edu.co", Password: "secret123"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Bienvenido, ana@javeriana.edu.co")

	u, err := p.Profile(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 7, u.ID)

	require.NoError(t, p.Logout(ctx))
	_, err = p.Profile(ctx)
	require.ErrorIs(t, err, ErrLoginRequired)
}

func TestDashboard_Truncates(t *testing.T) {
	t.Parallel()

	tpl := &fakeTemplates{featured: make([]models.LatexTemplate, 5)}
	res := &fakeResumes{list: make([]models.GeneratedResume, 8)}
	p, out := newPages(t, &models.User{ID: 1, Name: "Ana"}, tpl, res)

	v, err := p.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Templates, 3)
	require.Len(t, v.Resumes, 5)
	require.Contains(t, out.String(), "Hola, Ana")
}

func TestParseRequiredFields(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"nombre", "email", "experiencia"}, ParseRequiredFields(" nombre, email ,,experiencia, "))
	require.Empty(t, ParseRequiredFields(" , "))
}

func TestTemplateForm_Defaults(t *testing.T) {
	t.Parallel()

	req := TemplateForm{Name: "CV", Faculty: "Ingeniería", CareerCode: "ING-SIS", LatexContent: "x", RequiredFields: "a,b"}.Request()
	require.Equal(t, "modern", req.Style)
	require.Equal(t, "1.0.0", req.Version)
	require.NotNil(t, req.IsFeatured)
	require.False(t, *req.IsFeatured)
	require.Equal(t, []string{"a", "b"}, req.RequiredFields)
}

func TestTemplateCreate_WithPreview(t *testing.T) {
	t.Parallel()

	tpl := &fakeTemplates{}
	p, _ := newPages(t, &models.User{ID: 1}, tpl, nil)

	got, err := p.TemplateCreate(context.Background(), TemplateForm{
		Name: "CV", Faculty: "F", CareerCode: "C1", LatexContent: "x", RequiredFields: "a",
		Preview: &Preview{Filename: "p.pdf", Data: strings.NewReader("%PDF-1.4")},
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn/preview.pdf", got.PreviewPDFURL)
	require.Equal(t, []int64{100}, tpl.uploaded)
}

func TestTemplateCreate_PreviewFailureIsPartial(t *testing.T) {
	t.Parallel()

	tpl := &fakeTemplates{uploadErr: service.ErrNotPDF}
	p, _ := newPages(t, &models.User{ID: 1}, tpl, nil)

	got, err := p.TemplateCreate(context.Background(), TemplateForm{
		Name: "CV", Faculty: "F", CareerCode: "C1", LatexContent: "x", RequiredFields: "a",
		Preview: &Preview{Filename: "p.txt", Data: strings.NewReader("hola")},
	})
	var pe *PreviewUploadError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, err, service.ErrNotPDF)
	require.True(t, strings.HasPrefix(err.Error(), "Plantilla creada pero error al subir PDF: "))
	require.NotNil(t, got)
	require.EqualValues(t, 100, got.ID)
}

func TestTemplateCreate_ConflictThenUpdate(t *testing.T) {
	t.Parallel()

	tpl := &fakeTemplates{
		createErr: service.ErrTemplateExists,
		byID:      map[int64]*models.LatexTemplate{42: {ID: 42, CareerCode: "C1"}},
	}
	p, _ := newPages(t, &models.User{ID: 1}, tpl, nil)
	form := TemplateForm{Name: "Nuevo", Faculty: "F", CareerCode: "C1", LatexContent: "x", RequiredFields: "a"}

	_, err := p.TemplateCreate(context.Background(), form)
	var ce *TemplateConflictError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, service.ErrTemplateExists)
	require.EqualValues(t, 42, ce.ExistingID)

	got, err := p.TemplateUpdateExisting(context.Background(), ce.ExistingID, form)
	require.NoError(t, err)
	require.EqualValues(t, 42, got.ID)
	require.Equal(t, "Nuevo", *tpl.updated[42].Name)
	require.Equal(t, "modern", *tpl.updated[42].Style)
}

func TestComposeFreeText(t *testing.T) {
	t.Parallel()

	required := []string{"Nombre completo", "Email"}

	require.Equal(t, "Nombre completo: Ana\nEmail: ana@x.co",
		ComposeFreeText(required, map[string]string{"nombre_completo": "Ana", "Email": "ana@x.co"}, ""))
	require.Equal(t, "Email: ana@x.co\n\nTrabajé en X",
		ComposeFreeText(required, map[string]string{"email": "ana@x.co"}, " Trabajé en X "))
	require.Equal(t, "solo texto", ComposeFreeText(required, nil, "solo texto"))
	require.Empty(t, ComposeFreeText(required, map[string]string{"Email": "  "}, ""))
}

func TestResumeNew(t *testing.T) {
	t.Parallel()

	tpl := &fakeTemplates{byID: map[int64]*models.LatexTemplate{3: {ID: 3, RequiredFields: []string{"Nombre"}}}}
	res := &fakeResumes{}
	p, _ := newPages(t, &models.User{ID: 9}, tpl, res)

	_, err := p.ResumeNew(context.Background(), ResumeForm{TemplateID: 3})
	require.ErrorIs(t, err, ErrEmptyResume)
	require.Empty(t, res.generated)

	r, err := p.ResumeNew(context.Background(), ResumeForm{TemplateID: 3, Fields: map[string]string{"nombre": "Ana"}, CustomTitle: " Mi CV "})
	require.NoError(t, err)
	require.EqualValues(t, 55, r.ID)
	require.Len(t, res.generated, 1)
	require.EqualValues(t, 9, res.generated[0].UserID)
	require.Equal(t, "Nombre: Ana", res.generated[0].UserFreeText)
	require.Equal(t, "Mi CV", res.generated[0].CustomTitle)
}

func TestResumeNew_NoUserID(t *testing.T) {
	t.Parallel()

	p, _ := newPages(t, &models.User{Email: "x@y.z"}, nil, nil)

	_, err := p.ResumeNew(context.Background(), ResumeForm{TemplateID: 1, FreeText: "x"})
	require.ErrorIs(t, err, ErrNoUserID)
}

func TestResumeDownload(t *testing.T) {
	t.Parallel()

	res := &fakeResumes{
		byID: map[int64]*models.GeneratedResume{12: {ID: 12, Title: "Mi/CV"}},
		pdf:  []byte("%PDF-1.4 data"),
	}
	p, _ := newPages(t, &models.User{ID: 1}, nil, res)
	dir := t.TempDir()

	path, err := p.ResumeDownload(context.Background(), 12, dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cv-Mi_CV-12.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, res.pdf, data)
}

func TestResumes_StatusLabels(t *testing.T) {
	t.Parallel()

	res := &fakeResumes{list: []models.GeneratedResume{
		{ID: 1, Title: "A", GenerationStatus: models.StatusPendingReview},
		{ID: 2, Title: "B", GenerationStatus: "queued"},
	}}
	p, out := newPages(t, &models.User{ID: 1}, nil, res)

	_, err := p.Resumes(context.Background(), models.ResumeFilter{})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Pendiente de Revisión")
	require.Contains(t, out.String(), "queued")
}
