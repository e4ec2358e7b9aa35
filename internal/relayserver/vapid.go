package relayserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// VAPIDKeys holds the key pair used to sign Web Push requests. The public
// key is handed to subscribers; the private key never leaves the server.
type VAPIDKeys struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// LoadOrGenerateVAPID reads the key pair from path, generating and persisting
// a fresh pair on first run. Regenerating keys invalidates every existing
// subscription, so the pair must survive restarts.
func LoadOrGenerateVAPID(path string) (*VAPIDKeys, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var keys VAPIDKeys
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, errors.New(fmt.Errorf("failed to parse VAPID key file: %w", err)).
				Component("relayserver").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
		if keys.PublicKey == "" || keys.PrivateKey == "" {
			return nil, errors.Newf("VAPID key file %s is incomplete", path).
				Component("relayserver").
				Category(errors.CategoryConfiguration).
				Build()
		}
		return &keys, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.New(fmt.Errorf("failed to read VAPID key file: %w", err)).
			Component("relayserver").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to generate VAPID keys: %w", err)).
			Component("relayserver").
			Category(errors.CategoryGeneric).
			Build()
	}
	keys := &VAPIDKeys{PublicKey: publicKey, PrivateKey: privateKey}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(fmt.Errorf("failed to create key directory: %w", err)).
				Component("relayserver").
				Category(errors.CategoryFileIO).
				Build()
		}
	}
	encoded, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return nil, errors.New(fmt.Errorf("failed to persist VAPID keys: %w", err)).
			Component("relayserver").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return keys, nil
}
