// service — доменные операции над REST-бэкендом резюме: аутентификация,
// LaTeX-шаблоны и сгенерированные резюме.
//
// Основные аспекты:
//   - Сервисы не хранят состояние запроса и безопасны для конкурентного
//     использования, если переданные клиент и хранилище токенов потокобезопасны.
//   - Ответы бэкенда приходят в обёртке {success, message, data}; отсутствие
//     data там, где оно обязательно, превращается в ошибку с сообщением бэкенда.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/javeriana-conecta/conecta-web/internal/apiclient"
	"github.com/javeriana-conecta/conecta-web/internal/models"
)

var (
	// ErrNotFound — сущность не найдена (404 или success=false/data=null).
	ErrNotFound = errors.New("not found")

	// ErrUnexpectedResponse — бэкенд ответил 2xx, но без обязательного data.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrInvalidAuthResponse — в ответе login/register нет одного из токенов.
	ErrInvalidAuthResponse = errors.New("invalid auth response")

	// ErrTemplateExists — для этого careerCode шаблон уже есть.
	ErrTemplateExists = errors.New("template already exists for career")

	// ErrNotPDF — загружаемый файл не PDF.
	ErrNotPDF = errors.New("file is not a pdf")

	// ErrFileTooLarge — файл больше MaxPreviewPDFSize.
	ErrFileTooLarge = errors.New("file too large")
)

// Doer — транспорт сервисов; реализован *apiclient.Client.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

// call выполняет запрос и разбирает обёртку ответа в env.
func call[T any](ctx context.Context, api Doer, req apiclient.Request) (models.Envelope[T], error) {
	var env models.Envelope[T]
	req.Result = &env

	_, err := api.Do(ctx, req)
	return env, err
}

// requireData — обёртка обязана содержать data (и success, если strict).
func requireData[T any](env models.Envelope[T], strict bool, fallback string) (*T, error) {
	if env.Data == nil || (strict && !env.Success) {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, msg)
	}

	return env.Data, nil
}

// dataOrBare — data из обёртки или, если его нет, всё тело как T.
func dataOrBare[T any](body []byte) (T, error) {
	var env models.Envelope[T]
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return *env.Data, nil
	}

	var bare T
	if err := json.Unmarshal(body, &bare); err != nil {
		return bare, fmt.Errorf("%w: %v", apiclient.ErrDecode, err)
	}

	return bare, nil
}

// notFound превращает 404 бэкенда в ErrNotFound, сохраняя его сообщение.
func notFound(err error) error {
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiclient.MessageOf(err))
	}
	return err
}
