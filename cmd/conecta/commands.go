package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/javeriana-conecta/conecta-web/internal/models"
	"github.com/javeriana-conecta/conecta-web/internal/pages"
)

var errUsage = errors.New("uso incorrecto")

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {"iniciar sesión", cmdLogin},
	"register":        {"crear cuenta", cmdRegister},
	"logout":          {"cerrar sesión", cmdLogout},
	"profile":         {"ver perfil", cmdProfile},
	"dashboard":       {"resumen: plantillas destacadas y CVs recientes", cmdDashboard},
	"templates":       {"listar plantillas", cmdTemplates},
	"template":        {"ver plantilla por ID", cmdTemplate},
	"template-create": {"crear plantilla", cmdTemplateCreate},
	"template-delete": {"eliminar plantilla", cmdTemplateDelete},
	"resumes":         {"listar CVs", cmdResumes},
	"resume":          {"ver CV por ID", cmdResume},
	"resume-new":      {"generar CV con IA", cmdResumeNew},
	"resume-download": {"descargar PDF de un CV", cmdResumeDownload},
	"resume-delete":   {"eliminar CV", cmdResumeDelete},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "uso: conecta [-config path] [-v] <comando> [flags]")
	fmt.Fprintln(w, "\ncomandos:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %s\n", n, commands[n].summary)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// idArg — единственный позиционный аргумент: числовой ID.
func idArg(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%w: %s <id>", errUsage, fs.Name())
	}

	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id inválido %q", errUsage, fs.Arg(0))
	}

	return id, nil
}

// password берёт пароль из флага, затем из CONECTA_PASSWORD, затем из stdin.
func password(a *app, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("CONECTA_PASSWORD"); v != "" {
		return v, nil
	}

	fmt.Fprint(a.out, "Contraseña: ")
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	pass := fs.String("password", "", "contraseña")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := password(a, *pass)
	if err != nil {
		return err
	}

	_, err = a.pages.Login(ctx, models.LoginRequest{Email: strings.TrimSpace(*email), Password: pw})
	return err
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	name := fs.String("name", "", "nombre")
	email := fs.String("email", "", "email")
	pass := fs.String("password", "", "contraseña")
	age := fs.Int("age", 0, "edad")
	city := fs.String("city", "", "ciudad")
	career := fs.String("career", "", "carrera")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := password(a, *pass)
	if err != nil {
		return err
	}

	req := models.RegisterRequest{
		Name:     strings.TrimSpace(*name),
		Email:    strings.TrimSpace(*email),
		Password: pw,
		City:     *city,
		Career:   *career,
	}
	if *age != 0 {
		req.Age = age
	}

	_, err = a.pages.Register(ctx, req)
	return err
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	return a.pages.Logout(ctx)
}

func cmdProfile(ctx context.Context, a *app, _ []string) error {
	_, err := a.pages.Profile(ctx)
	return err
}

func cmdDashboard(ctx context.Context, a *app, _ []string) error {
	_, err := a.pages.Dashboard(ctx)
	return err
}

// boolFlag — флаг-тристейт: nil, пока не задан.
type boolFlag struct{ v *bool }

func (b *boolFlag) String() string {
	if b.v == nil {
		return ""
	}
	return strconv.FormatBool(*b.v)
}

func (b *boolFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.v = &v
	return nil
}

func (b *boolFlag) IsBoolFlag() bool { return true }

func cmdTemplates(ctx context.Context, a *app, args []string) error {
	fs := newFlags("templates")
	var f models.TemplateFilter
	var active, featured boolFlag
	fs.StringVar(&f.Name, "name", "", "filtrar por nombre")
	fs.StringVar(&f.Faculty, "faculty", "", "filtrar por facultad")
	fs.StringVar(&f.CareerCode, "career", "", "filtrar por código de carrera")
	fs.StringVar(&f.Style, "style", "", "filtrar por estilo")
	fs.Var(&active, "active", "solo activas")
	fs.Var(&featured, "featured", "solo destacadas")
	if err := parse(fs, args); err != nil {
		return err
	}
	f.IsActive, f.IsFeatured = active.v, featured.v

	_, err := a.pages.Templates(ctx, f)
	return err
}

func cmdTemplate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("template")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	_, err = a.pages.TemplateDetail(ctx, id)
	return err
}

func cmdTemplateCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("template-create")
	var form pages.TemplateForm
	fs.StringVar(&form.Name, "name", "", "nombre")
	fs.StringVar(&form.Faculty, "faculty", "", "facultad")
	fs.StringVar(&form.CareerCode, "career", "", "código de carrera")
	fs.StringVar(&form.Description, "description", "", "descripción")
	fs.StringVar(&form.Style, "style", "", "estilo (modern por defecto)")
	fs.StringVar(&form.RequiredFields, "fields", "", "campos requeridos separados por coma")
	fs.BoolVar(&form.IsFeatured, "featured", false, "destacada")
	fs.StringVar(&form.Version, "version", "", "versión (1.0.0 por defecto)")
	latexPath := fs.String("latex", "", "archivo .tex")
	previewPath := fs.String("preview", "", "PDF de vista previa")
	updateExisting := fs.Bool("update-existing", false, "actualizar la plantilla existente de la carrera")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *latexPath == "" {
		return fmt.Errorf("%w: -latex es obligatorio", errUsage)
	}
	latex, err := os.ReadFile(*latexPath)
	if err != nil {
		return fmt.Errorf("read latex: %w", err)
	}
	form.LatexContent = string(latex)

	if *previewPath != "" {
		f, err := os.Open(*previewPath)
		if err != nil {
			return fmt.Errorf("open preview: %w", err)
		}
		defer f.Close()
		form.Preview = &pages.Preview{Filename: filepath.Base(*previewPath), Data: f}
	}

	_, err = a.pages.TemplateCreate(ctx, form)

	var conflict *pages.TemplateConflictError
	if *updateExisting && errors.As(err, &conflict) && conflict.ExistingID != 0 {
		_, err = a.pages.TemplateUpdateExisting(ctx, conflict.ExistingID, form)
	}

	return err
}

func cmdTemplateDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("template-delete")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	return a.pages.TemplateDelete(ctx, id)
}

func cmdResumes(ctx context.Context, a *app, args []string) error {
	fs := newFlags("resumes")
	var f models.ResumeFilter
	var favorite boolFlag
	var status string
	fs.StringVar(&f.Title, "title", "", "filtrar por título")
	fs.Int64Var(&f.TemplateID, "template", 0, "filtrar por plantilla")
	fs.StringVar(&status, "status", "", "filtrar por estado")
	fs.Var(&favorite, "favorite", "solo favoritos")
	if err := parse(fs, args); err != nil {
		return err
	}
	f.GenerationStatus = models.GenerationStatus(status)
	f.IsFavorite = favorite.v

	_, err := a.pages.Resumes(ctx, f)
	return err
}

func cmdResume(ctx context.Context, a *app, args []string) error {
	fs := newFlags("resume")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	_, err = a.pages.ResumeDetail(ctx, id)
	return err
}

// fieldsFlag — повторяемый -field "Nombre=Ana".
type fieldsFlag map[string]string

func (f fieldsFlag) String() string { return "" }

func (f fieldsFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("se espera campo=valor, got %q", s)
	}
	f[strings.TrimSpace(k)] = v
	return nil
}

func cmdResumeNew(ctx context.Context, a *app, args []string) error {
	fs := newFlags("resume-new")
	form := pages.ResumeForm{Fields: map[string]string{}}
	fs.Int64Var(&form.TemplateID, "template", 0, "ID de plantilla")
	fs.Var(fieldsFlag(form.Fields), "field", "campo=valor (repetible)")
	fs.StringVar(&form.FreeText, "text", "", "texto libre")
	textFile := fs.String("text-file", "", "archivo con texto libre")
	fs.StringVar(&form.CustomTitle, "title", "", "título del CV")
	fs.StringVar(&form.AdditionalContext, "context", "", "contexto adicional para la IA")
	if err := parse(fs, args); err != nil {
		return err
	}

	if form.TemplateID <= 0 {
		return fmt.Errorf("%w: -template es obligatorio", errUsage)
	}
	if *textFile != "" {
		b, err := os.ReadFile(*textFile)
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		form.FreeText = strings.TrimSpace(form.FreeText + "\n" + string(b))
	}

	_, err := a.pages.ResumeNew(ctx, form)
	return err
}

func cmdResumeDownload(ctx context.Context, a *app, args []string) error {
	fs := newFlags("resume-download")
	dir := fs.String("dir", ".", "directorio destino")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	_, err = a.pages.ResumeDownload(ctx, id, *dir)
	return err
}

func cmdResumeDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("resume-delete")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	return a.pages.ResumeDelete(ctx, id)
}
