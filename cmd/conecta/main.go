package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/config"
	"github.com/javeriana-conecta/conecta-web/internal/pages"
	"github.com/javeriana-conecta/conecta-web/internal/service"
	"github.com/javeriana-conecta/conecta-web/internal/session"
	"github.com/javeriana-conecta/conecta-web/internal/tokens"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
	exitLogin = 3
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("conecta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file")
	verbose := fs.Bool("v", false, "log HTTP requests to stderr")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return exitUsage
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "comando desconocido: %s\n\n", fs.Arg(0))
		usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}

	log := setupLogger(stderr, *verbose)
	ctx = logctx.Into(ctx, log)

	app, closeFn, err := newApp(ctx, cfg, log, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "init: %v\n", err)
		return exitError
	}
	defer closeFn()

	if err := cmd.run(ctx, app, fs.Args()[1:]); err != nil {
		return report(stderr, err)
	}

	return exitOK
}

// app — собранные зависимости для команд.
type app struct {
	pages *pages.Pages
	stdin io.Reader
	out   io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) (*app, func(), error) {
	store, err := tokens.OpenStore(ctx, cfg.Client.TokenStore)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			log.Warn("token_store_close_failed", slog.String("err", err.Error()))
		}
	}

	tm := tokens.NewManager(store, tokens.WithTTL(cfg.Client.AccessTTL, cfg.Client.RefreshTTL))

	api, err := apiclient.New(tm, apiclient.Options{
		BaseURL:   cfg.Client.BaseURL,
		Timeout:   cfg.Client.Timeout,
		UserAgent: cfg.Client.UserAgent,
		Logger:    log,
		OnAuthFailure: func(context.Context, error) {
			fmt.Fprintln(stderr, "La sesión expiró. Inicia sesión de nuevo: conecta login")
		},
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	sess := session.New(service.NewAuth(api, api, tm), tm)
	p := pages.New(sess, service.NewTemplates(api), service.NewResumes(api), stdout)

	return &app{pages: p, stdin: stdin, out: stdout}, closeFn, nil
}

func report(stderr io.Writer, err error) int {
	var (
		conflict *pages.TemplateConflictError
		partial  *pages.PreviewUploadError
		apiErr   *apiclient.APIError
	)

	switch {
	case errors.Is(err, pages.ErrLoginRequired):
		fmt.Fprintln(stderr, "Necesitas iniciar sesión: conecta login")
		return exitLogin
	case apiclient.IsSessionExpired(err):
		return exitLogin
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return exitUsage
	case errors.As(err, &conflict):
		fmt.Fprintln(stderr, conflict.Error())
		if conflict.ExistingID != 0 {
			fmt.Fprintln(stderr, "Usa --update-existing para actualizar la plantilla existente")
		}
		return exitError
	case errors.As(err, &partial):
		fmt.Fprintln(stderr, partial.Error())
		return exitError
	case errors.As(err, &apiErr):
		fmt.Fprintln(stderr, apiErr.Message)
		return exitError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(stderr, "No encontrado")
		return exitError
	default:
		fmt.Fprintln(stderr, err)
		return exitError
	}
}

func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
