package security

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// LoadCredentials reads a Google service-account credentials file. Files
// holding a SealedPayload are decrypted with passphrase; anything else is
// returned as plain JSON.
func LoadCredentials(path, passphrase string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	payload, sealed := parseSealed(data)
	if !sealed {
		logger.Debug("loaded plain credentials", slog.String("path", path))
		return data, nil
	}

	plaintext, err := Open(payload, []byte(passphrase), nil)
	if err != nil {
		logger.Error("failed to open sealed credentials",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("open sealed credentials %s: %w", path, err)
	}

	logger.Info("opened sealed credentials", slog.String("path", path))
	return plaintext, nil
}

// SealCredentialsFile encrypts the credentials at src into dst.
func SealCredentialsFile(src, dst, passphrase string, config *EncryptionConfig) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("credentials %s are not valid JSON", src)
	}

	payload, err := Seal(data, []byte(passphrase), config)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sealed payload: %w", err)
	}
	return os.WriteFile(dst, out, 0o600)
}

func parseSealed(data []byte) (*SealedPayload, bool) {
	var payload SealedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Version == 0 || len(payload.Ciphertext) == 0 || len(payload.Nonce) == 0 {
		return nil, false
	}
	return &payload, true
}
