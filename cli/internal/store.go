package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devilmonastery/storefront/internal/storage"
)

// storePath returns the path of the local store for a context
func storePath(contextName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("failed to get home directory: %w", homeErr)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	filename := fmt.Sprintf("storage-%s.json", contextName)
	return filepath.Join(configDir, "storefront", filename), nil
}

// NewContextStore opens the file-backed store of the named context
func NewContextStore(contextName string) (*storage.FileStore, error) {
	path, err := storePath(contextName)
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(path), nil
}

// removeContextStore deletes the store file of the named context, if any
func removeContextStore(contextName string) error {
	path, err := storePath(contextName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stored token: %w", err)
	}
	return nil
}
