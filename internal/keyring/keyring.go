// Package keyring keeps the PostgreSQL connection string out of the config
// path and the shell history.
package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/nixie/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source names where a resolved connection string came from.
type Source string

const (
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// ResolveConnectionString prefers the environment override and falls back to
// the keyring.
func ResolveConnectionString() (string, Source, error) {
	if connStr := os.Getenv(constants.ConnectionEnvVar); connStr != "" {
		return connStr, SourceEnv, nil
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return "", "", err
	}
	return connStr, SourceKeyring, nil
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
