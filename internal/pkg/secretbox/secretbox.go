// secretbox шифрует секреты (токены) перед записью в локальные хранилища.
//
// Формат: base64(nonce || ciphertext || tag), AEAD — XChaCha20-Poly1305.
// Ключ выводится из парольной фразы через Argon2id с солью хранилища.
package secretbox

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SaltSize — размер соли для Argon2id.
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrEmptyPassphrase = errors.New("secretbox: empty passphrase")
	ErrInvalidSalt     = errors.New("secretbox: invalid salt")
	ErrMalformed       = errors.New("secretbox: malformed ciphertext")
	ErrDecrypt         = errors.New("secretbox: decryption failed")
)

// Box — AEAD с выведенным ключом. Безопасен для конкурентного использования.
type Box struct {
	aead cipher.AEAD
}

// NewSalt генерирует случайную соль.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("secretbox: generate salt: %w", err)
	}

	return salt, nil
}

// New выводит ключ из passphrase и salt и возвращает готовый Box.
func New(passphrase string, salt []byte) (*Box, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	if len(salt) != SaltSize {
		return nil, ErrInvalidSalt
	}

	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: init aead: %w", err)
	}

	return &Box{aead: aead}, nil
}

// Seal шифрует plaintext; каждый вызов использует новый случайный nonce.
func (b *Box) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(plaintext)+b.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secretbox: generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open расшифровывает значение, полученное из Seal.
func (b *Box) Open(encoded string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}

	ns := b.aead.NonceSize()
	if len(raw) < ns+b.aead.Overhead() {
		return nil, ErrMalformed
	}

	plain, err := b.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plain, nil
}
