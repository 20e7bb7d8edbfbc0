package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/wellday/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("API token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken retrieves the API bearer token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the API bearer token in the OS keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the API bearer token from the OS keyring.
func DeleteToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Source resolves the bearer token for API calls: an explicit override
// (flag or environment) first, then the keyring. It satisfies api.TokenSource.
type Source struct {
	Override string
}

// Token returns the token to send. A missing keyring entry, or a keyring
// that cannot be reached, yields an empty token so the request goes out
// unauthenticated and the backend decides.
func (s Source) Token() (string, error) {
	if s.Override != "" {
		return s.Override, nil
	}
	token, err := GetToken()
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrKeyringUnavailable) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Origin describes where Token would get its value from.
func (s Source) Origin() string {
	if s.Override != "" {
		return "override"
	}
	if _, err := GetToken(); err == nil {
		return "keyring"
	}
	return "none"
}
