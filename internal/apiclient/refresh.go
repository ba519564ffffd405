package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/javeriana-conecta/conecta-web/internal/models"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

const refreshPath = "auth/refresh"

// Refresh обменивает refresh-токен на новый access-токен. Запрос идёт без
// Authorization и без повторов; токены не сохраняет.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	const op = "apiclient.Refresh"

	if refreshToken == "" {
		return models.RefreshResponse{}, fmt.Errorf("%s: %w", op, ErrNoRefreshToken)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		Post(refreshPath)
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if res.IsError() {
		return models.RefreshResponse{}, fmt.Errorf("%s: %w: %w", op, ErrRefreshRejected, newAPIError(res.StatusCode(), res.Body()))
	}

	out, err := parseRefresh(res.Body())
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// parseRefresh принимает и {"data":{"accessToken":...}}, и {"accessToken":...}.
func parseRefresh(body []byte) (models.RefreshResponse, error) {
	var env struct {
		models.RefreshResponse
		Data *models.RefreshResponse `json:"data"`
	}

	if err := json.Unmarshal(body, &env); err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := env.RefreshResponse
	if env.Data != nil && env.Data.AccessToken != "" {
		out = *env.Data
	}

	if out.AccessToken == "" {
		return models.RefreshResponse{}, fmt.Errorf("%w: no access token in response", ErrRefreshRejected)
	}

	return out, nil
}

// refresh — шаг протокола после первого 401: обновить и сохранить токен.
// При неудаче токены удаляются и вызывается OnAuthFailure.
// Отмена контекста не считается неудачей сессии: токены остаются.
func (c *Client) refresh(ctx context.Context) error {
	const op = "apiclient.refresh"
	log := logctx.From(ctx)

	err := c.refreshAndStore(ctx)
	if err == nil {
		log.Info("token_refreshed")
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}

	log.Warn("refresh_failed", slog.String("err", err.Error()))

	if cerr := c.tokens.Clear(ctx); cerr != nil {
		log.Error("token_clear_failed", slog.String("err", cerr.Error()))
	}

	err = fmt.Errorf("%s: %w: %w", op, ErrSessionExpired, err)
	if c.onAuthFailure != nil {
		c.onAuthFailure(ctx, err)
	}

	return err
}

func (c *Client) refreshAndStore(ctx context.Context) error {
	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if rt == "" {
		return ErrNoRefreshToken
	}

	out, err := c.Refresh(ctx, rt)
	if err != nil {
		return err
	}

	if err := c.tokens.SetAccessToken(ctx, out.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}

	if out.RefreshToken != "" && out.RefreshToken != rt {
		if err := c.tokens.SetRefreshToken(ctx, out.RefreshToken); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
		logctx.From(ctx).Debug("refresh_token_rotated", tokenAttr(out.RefreshToken))
	}

	return nil
}

// IsSessionExpired — удобная проверка для вызывающих слоёв.
func IsSessionExpired(err error) bool { return errors.Is(err, ErrSessionExpired) }
