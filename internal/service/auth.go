package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/models"
	"github.com/javeriana-conecta/conecta-web/internal/pkg/redact"
	"github.com/javeriana-conecta/conecta-web/internal/tokens"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

// AuthTokens — часть tokens.Manager, нужная Auth.
type AuthTokens interface {
	Save(ctx context.Context, p tokens.Pair) error
	Clear(ctx context.Context) error
}

// Refresher — обмен refresh-токена; реализован *apiclient.Client.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)
}

type Auth struct {
	api       Doer
	refresher Refresher
	tokens    AuthTokens
}

func NewAuth(api Doer, refresher Refresher, t AuthTokens) *Auth {
	return &Auth{api: api, refresher: refresher, tokens: t}
}

func (a *Auth) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	const op = "service.Auth.Login"

	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Debug("login", slog.String("email", redact.Email(req.Email)))

	out, err := a.authenticate(ctx, "auth/login", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	const op = "service.Auth.Register"

	if err := models.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := a.authenticate(ctx, "auth/register", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// authenticate — общий путь login/register: POST, разбор data или голого тела,
// проверка обоих токенов и сохранение пары.
func (a *Auth) authenticate(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	res, err := a.api.Do(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		SkipRefresh: true,
	})
	if err != nil {
		return nil, err
	}

	out, err := dataOrBare[models.AuthResponse](res.Body)
	if err != nil {
		return nil, err
	}

	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, ErrInvalidAuthResponse
	}

	if err := a.tokens.Save(ctx, tokens.Pair{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}); err != nil {
		return nil, err
	}

	return &out, nil
}

// Logout сообщает бэкенду о выходе; ошибка бэкенда только логируется,
// токены удаляются в любом случае.
func (a *Auth) Logout(ctx context.Context) error {
	const op = "service.Auth.Logout"

	if _, err := a.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "auth/logout"}); err != nil {
		logctx.From(ctx).Warn("logout_request_failed", slog.String("err", err.Error()))
	}

	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *Auth) Profile(ctx context.Context) (*models.User, error) {
	const op = "service.Auth.Profile"

	res, err := a.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "auth/profile"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err := dataOrBare[models.User](res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

// Refresh возвращает новый access-токен; ничего не сохраняет.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "service.Auth.Refresh"

	out, err := a.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return out.AccessToken, nil
}
