package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persiste el token de acceso en un archivo (modo 0600).
type TokenStore struct {
	path string
}

// NewTokenStore usa path como archivo del token.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path ruta del archivo.
func (s *TokenStore) Path() string { return s.path }

// Load devuelve el token guardado; "" si no hay sesión.
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token: leer %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save guarda el token, creando el directorio si hace falta.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token: crear directorio: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("token: escribir %s: %w", s.path, err)
	}
	return nil
}

// Clear borra la sesión guardada. No falla si no existía.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("token: borrar %s: %w", s.path, err)
	}
	return nil
}
