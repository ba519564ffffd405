// storage задаёт контракт хранилища именованных секретов (access/refresh-токенов)
// на стороне клиента. Конкретный механизм (память, файл, SQLite, Redis) выбирается
// конфигурацией и не влияет на протокол обновления токенов.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound — секрет отсутствует или истёк.
	ErrNotFound = errors.New("not found")
	// ErrClosed — хранилище уже закрыто.
	ErrClosed = errors.New("storage closed")
	// ErrEmptyName — пустое имя секрета.
	ErrEmptyName = errors.New("empty secret name")
)

// SecretStore — минимальный key-value контракт для секретов с истечением.
//
// Реализации обязаны быть безопасны для конкурентного использования.
type SecretStore interface {
	// Get возвращает значение секрета или ErrNotFound.
	Get(ctx context.Context, name string) (string, error)
	// Set сохраняет секрет; ttl <= 0 — без истечения.
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	// Remove удаляет секреты; отсутствующие имена не считаются ошибкой.
	Remove(ctx context.Context, names ...string) error
	// Close освобождает ресурсы хранилища.
	Close() error
}

// ExpiresAt переводит ttl в абсолютный момент истечения (нулевое время — бессрочно).
func ExpiresAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}

	return now.Add(ttl).UTC()
}

// Expired сообщает, истёк ли секрет к моменту now.
func Expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && !now.Before(expiresAt)
}
