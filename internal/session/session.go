// session — текущий пользователь приложения. Provider создаётся один раз
// в корне приложения и передаётся страницам явно.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/models"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

// AuthService — операции аутентификации (service.Auth).
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
}

// Tokens — часть tokens.Manager, нужная Provider.
type Tokens interface {
	HasAccessToken(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// Provider хранит пользователя сессии. Безопасен для конкурентного использования.
type Provider struct {
	auth   AuthService
	tokens Tokens

	mu      sync.RWMutex
	user    *models.User
	loading bool
}

// New — Provider в состоянии "загрузка", пока не вызван Init.
func New(auth AuthService, t Tokens) *Provider {
	return &Provider{auth: auth, tokens: t, loading: true}
}

// GetUser возвращает копию пользователя или nil.
func (p *Provider) GetUser() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *Provider) SetUser(u *models.User) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u == nil {
		p.user = nil
		return
	}
	cp := *u
	p.user = &cp
}

// Clear забывает пользователя; токены не трогает.
func (p *Provider) Clear() { p.SetUser(nil) }

func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Init загружает профиль, только если есть access-токен. Ошибка профиля
// не возвращается: сессия просто остаётся анонимной (см. RefreshUser).
func (p *Provider) Init(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	if !p.tokens.HasAccessToken(ctx) {
		return
	}

	if err := p.RefreshUser(ctx); err != nil {
		logctx.From(ctx).Debug("session_init_failed", slog.String("err", err.Error()))
	}
}

// RefreshUser перечитывает профиль. 401/403 (или истёкшая сессия) удаляют
// токены и пользователя; прочие ошибки оставляют всё как есть.
func (p *Provider) RefreshUser(ctx context.Context) error {
	const op = "session.RefreshUser"

	u, err := p.auth.Profile(ctx)
	if err != nil {
		if apiclient.IsAuthError(err) {
			if cerr := p.tokens.Clear(ctx); cerr != nil {
				logctx.From(ctx).Warn("token_clear_failed", slog.String("err", cerr.Error()))
			}
			p.Clear()
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	p.SetUser(u)
	return nil
}

func (p *Provider) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	const op = "session.Login"

	out, err := p.auth.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.SetUser(&out.User)
	return p.GetUser(), nil
}

func (p *Provider) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	const op = "session.Register"

	out, err := p.auth.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.SetUser(&out.User)
	return p.GetUser(), nil
}

// Logout — пользователь сбрасывается даже при ошибке очистки токенов.
func (p *Provider) Logout(ctx context.Context) error {
	defer p.Clear()

	if err := p.auth.Logout(ctx); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}

	return nil
}
