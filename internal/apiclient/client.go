// apiclient — HTTP-клиент бэкенда резюме с протоколом обновления сессии:
// при 401 один раз обновляет access-токен и повторяет запрос.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/javeriana-conecta/conecta-web/internal/clients/interceptors"
	"github.com/javeriana-conecta/conecta-web/internal/pkg/redact"
	logctx "github.com/javeriana-conecta/conecta-web/pkg/log"
)

// TokenStore — то, что клиенту нужно от хранилища токенов (tokens.Manager).
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	SetRefreshToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// AuthFailureFunc вызывается после неудачного обновления токена,
// когда токены уже удалены (аналог перехода на страницу входа).
type AuthFailureFunc func(ctx context.Context, err error)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UserAgent     string
	Logger        *slog.Logger
	OnAuthFailure AuthFailureFunc
}

type Client struct {
	http          *resty.Client
	tokens        TokenStore
	log           *slog.Logger
	onAuthFailure AuthFailureFunc
}

// File — часть multipart-запроса. Data хранится целиком, чтобы запрос
// можно было повторить после обновления токена.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Request — один логический запрос.
type Request struct {
	Method string
	Path   string // относительно BaseURL, например "latex-templates/7"
	Query  url.Values
	Body   any    // сериализуется в JSON; []byte уходит как есть
	Files  []File // multipart; взаимоисключающе с Body
	Result any    // куда декодировать JSON ответа; nil — не декодировать

	// SkipRefresh — 401 здесь означает неверные учётные данные (login/register),
	// а не истёкший access-токен.
	SkipRefresh bool
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func New(tokens TokenStore, opts Options) (*Client, error) {
	const op = "apiclient.New"

	base := strings.TrimRight(opts.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	c := resty.New().
		SetBaseURL(base).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(interceptors.WithMetadata(opts.UserAgent)).
		OnAfterResponse(interceptors.Logging(log)).
		OnError(interceptors.LogError(log))
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}

	return &Client{
		http:          c,
		tokens:        tokens,
		log:           log,
		onAuthFailure: opts.OnAuthFailure,
	}, nil
}

// Do выполняет запрос. На 401 один раз обновляет токен и повторяет запрос;
// повтор сам обновлять токен уже не может. Статус вне 2xx — *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	const op = "apiclient.Do"

	if interceptors.RequestIDFrom(ctx) == "" {
		ctx = interceptors.WithRequestID(ctx, uuid.NewString())
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for attempt := 0; ; attempt++ {
		res, err := c.issue(ctx, req, body)
		if err != nil {
			return nil, fmt.Errorf("%s: %s %s: %w", op, req.Method, req.Path, err)
		}

		if res.StatusCode() == http.StatusUnauthorized && attempt == 0 && !req.SkipRefresh {
			logctx.From(ctx).Debug("access_token_rejected", slog.String("path", req.Path))

			if err := c.refresh(ctx); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			continue
		}

		return finish(res, req.Result)
	}
}

// Get/Post/Put/Patch/Delete — сокращения над Do для JSON-запросов.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Result: result})
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Result: result})
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Result: result})
	return err
}

func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body, Result: result})
	return err
}

func (c *Client) Delete(ctx context.Context, path string, result any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Result: result})
	return err
}

func (c *Client) issue(ctx context.Context, req Request, body []byte) (*resty.Response, error) {
	r := c.http.R().SetContext(ctx)

	tok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		logctx.From(ctx).Warn("access_token_read_failed", slog.String("err", err.Error()))
	}
	if tok != "" {
		r.SetAuthToken(tok)
	}

	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	switch {
	case len(req.Files) > 0:
		for _, f := range req.Files {
			r.SetMultipartField(f.Field, f.Name, f.ContentType, bytes.NewReader(f.Data))
		}
	case body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	return r.Execute(req.Method, req.Path)
}

func finish(res *resty.Response, result any) (*Response, error) {
	const op = "apiclient.finish"

	out := &Response{Status: res.StatusCode(), Header: res.Header(), Body: res.Body()}

	if res.IsError() {
		return out, newAPIError(out.Status, out.Body)
	}

	if result != nil && len(out.Body) > 0 {
		if err := json.Unmarshal(out.Body, result); err != nil {
			return out, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
		}
	}

	return out, nil
}

// encodeBody сериализует тело один раз: те же байты уходят и в повторный запрос.
func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return out, nil
	}
}

func tokenAttr(tok string) slog.Attr { return slog.String("token", redact.Token(tok)) }
