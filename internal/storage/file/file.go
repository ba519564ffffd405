// file — хранилище секретов в локальном JSON-файле ("cookie jar").
//
// Значения шифруются secretbox-ом; соль хранится в самом файле. Запись
// атомарная (временный файл + rename), права 0600.
package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/javeriana-conecta/conecta-web/internal/pkg/secretbox"
	"github.com/javeriana-conecta/conecta-web/internal/storage"
)

type jarEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

type jar struct {
	Salt    string              `json:"salt"`
	Entries map[string]jarEntry `json:"entries"`
}

type Store struct {
	mu     sync.Mutex
	path   string
	salt   string
	box    *secretbox.Box
	closed bool
	now    func() time.Time
}

var _ storage.SecretStore = (*Store)(nil)

// New открывает (или создаёт) файл хранилища по пути path.
func New(path, passphrase string) (*Store, error) {
	const op = "storage.file.New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: mkdir: %w", op, err)
	}

	s := &Store{path: path, now: time.Now}

	j, err := s.read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		salt, err := secretbox.NewSalt()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		j = &jar{Salt: base64.RawStdEncoding.EncodeToString(salt), Entries: map[string]jarEntry{}}
		if err := s.write(j); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(j.Salt)
	if err != nil {
		return nil, fmt.Errorf("%s: decode salt: %w", op, err)
	}

	box, err := secretbox.New(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.salt = j.Salt
	s.box = box
	return s, nil
}

func (s *Store) Get(_ context.Context, name string) (string, error) {
	const op = "storage.file.Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	j, err := s.read()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	e, ok := j.Entries[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if storage.Expired(e.ExpiresAt, s.now()) {
		delete(j.Entries, name)
		_ = s.write(j)
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	plain, err := s.box.Open(e.Value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(plain), nil
}

func (s *Store) Set(_ context.Context, name, value string, ttl time.Duration) error {
	const op = "storage.file.Set"

	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	j, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sealed, err := s.box.Seal([]byte(value))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	j.Entries[name] = jarEntry{Value: sealed, ExpiresAt: storage.ExpiresAt(s.now(), ttl)}

	if err := s.write(j); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Remove(_ context.Context, names ...string) error {
	const op = "storage.file.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	j, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, n := range names {
		delete(j.Entries, n)
	}

	if err := s.write(j); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// read читает файл; отсутствие файла после инициализации означает пустой jar
// с прежней солью (файл могли удалить вручную — это равносильно logout).
func (s *Store) read() (*jar, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && s.salt != "" {
			return &jar{Salt: s.salt, Entries: map[string]jarEntry{}}, nil
		}

		return nil, err
	}

	var j jar
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, fmt.Errorf("decode jar: %w", err)
	}

	if j.Entries == nil {
		j.Entries = map[string]jarEntry{}
	}

	return &j, nil
}

func (s *Store) write(j *jar) error {
	b, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("encode jar: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".jar-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
