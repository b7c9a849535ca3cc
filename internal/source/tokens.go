package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/clockstorm/internal/logger"
)

const (
	keyringService = "clockstorm"
	keyringUser    = "source-token"
)

// TokenStore persists the OAuth2 token in the OS keyring and falls back to
// <Dir>/tokens.json when no keyring is available.
type TokenStore struct {
	Dir string
}

func (s TokenStore) path() string {
	return filepath.Join(s.Dir, "tokens.json")
}

// Load returns the saved token, or nil when none is stored.
func (s TokenStore) Load() (*oauth2.Token, error) {
	secret, err := keyring.Get(keyringService, keyringUser)
	switch {
	case err == nil:
		var tok oauth2.Token
		if err := json.Unmarshal([]byte(secret), &tok); err != nil {
			return nil, fmt.Errorf("corrupt token in keyring: %w", err)
		}
		return &tok, nil
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("keyring unavailable, reading token file", "err", err)
	}
	return s.loadFile()
}

func (s TokenStore) loadFile() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.path(), err)
	}
	return &tok, nil
}

// Save stores tok in the keyring, or in the token file if that fails.
func (s TokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	err = keyring.Set(keyringService, keyringUser, string(data))
	if err == nil {
		return nil
	}
	logger.Debug("keyring unavailable, writing token file", "err", err)
	return s.saveFile(data)
}

func (s TokenStore) saveFile(data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	tmpPath := s.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Delete removes the token from both locations.
func (s TokenStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("could not delete keyring token", "err", err)
	}
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
