// tokens — хранилище пары access/refresh-токенов на стороне клиента.
//
// Manager работает поверх storage.SecretStore и знает только имена и сроки
// хранения секретов; механизм хранения (файл, SQLite, Redis, память) подменяется
// без изменений в протоколе обновления токенов.
package tokens

//go:generate mockgen -destination=../../mocks/secret_store.go -package=mocks github.com/javeriana-conecta/conecta-web/internal/storage SecretStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/javeriana-conecta/conecta-web/internal/storage"
)

const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"

	// Сроки хранения: это срок жизни записи в хранилище, а не срок,
	// закодированный в самом токене.
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrEmptyToken — попытка сохранить пустой токен.
var ErrEmptyToken = errors.New("empty token")

// Pair — пара токенов, выдаваемая при login/register.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager — типизированный доступ к токенам в SecretStore.
type Manager struct {
	store      storage.SecretStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Option настраивает Manager.
type Option func(*Manager)

// WithTTL переопределяет сроки хранения (значения <= 0 игнорируются).
func WithTTL(access, refresh time.Duration) Option {
	return func(m *Manager) {
		if access > 0 {
			m.accessTTL = access
		}
		if refresh > 0 {
			m.refreshTTL = refresh
		}
	}
}

func NewManager(store storage.SecretStore, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
	}

	for _, o := range opts {
		o(m)
	}

	return m
}

// Save сохраняет обе части пары.
func (m *Manager) Save(ctx context.Context, p Pair) error {
	const op = "tokens.Save"

	if p.AccessToken == "" || p.RefreshToken == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyToken)
	}

	if err := m.store.Set(ctx, AccessTokenKey, p.AccessToken, m.accessTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Set(ctx, RefreshTokenKey, p.RefreshToken, m.refreshTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AccessToken возвращает access-токен; отсутствие токена — ("", nil).
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	return m.get(ctx, AccessTokenKey)
}

// RefreshToken возвращает refresh-токен; отсутствие токена — ("", nil).
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	return m.get(ctx, RefreshTokenKey)
}

// SetAccessToken сохраняет новый access-токен, срок хранения начинается заново.
func (m *Manager) SetAccessToken(ctx context.Context, token string) error {
	const op = "tokens.SetAccessToken"

	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyToken)
	}

	if err := m.store.Set(ctx, AccessTokenKey, token, m.accessTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetRefreshToken сохраняет ротированный refresh-токен.
func (m *Manager) SetRefreshToken(ctx context.Context, token string) error {
	const op = "tokens.SetRefreshToken"

	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyToken)
	}

	if err := m.store.Set(ctx, RefreshTokenKey, token, m.refreshTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// HasAccessToken сообщает, есть ли сохранённый access-токен.
func (m *Manager) HasAccessToken(ctx context.Context) bool {
	t, err := m.AccessToken(ctx)
	return err == nil && t != ""
}

// Clear удаляет обе части пары.
func (m *Manager) Clear(ctx context.Context) error {
	const op = "tokens.Clear"

	if err := m.store.Remove(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Manager) get(ctx context.Context, name string) (string, error) {
	const op = "tokens.get"

	v, err := m.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("%s: %s: %w", op, name, err)
	}

	return v, nil
}

// ExpiresAt читает claim exp из JWT без проверки подписи: клиент не знает
// ключа и использует значение только для отображения и диагностики.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// IsExpired — токен без читаемого exp считается истёкшим.
func IsExpired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return true
	}

	return !now.Before(exp)
}
