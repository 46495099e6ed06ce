package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/scrypt"
)

// PayloadVersion is the sealed payload format version.
const PayloadVersion = 1

var (
	// ErrEmptyPassphrase is returned when sealing or opening without a passphrase.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
	// ErrDecrypt is returned when a payload cannot be authenticated.
	ErrDecrypt = errors.New("decryption failed: wrong passphrase or tampered payload")
)

// EncryptionConfig defines the key-derivation and cipher parameters.
type EncryptionConfig struct {
	SCryptN      int
	SCryptR      int
	SCryptP      int
	SCryptKeyLen int
	SaltSize     int
}

// DefaultEncryptionConfig returns the parameters used for sealing credentials.
func DefaultEncryptionConfig() *EncryptionConfig {
	return &EncryptionConfig{
		SCryptN:      32768,
		SCryptR:      8,
		SCryptP:      1,
		SCryptKeyLen: 32,
		SaltSize:     32,
	}
}

// SealedPayload is an AES-256-GCM encrypted blob with its scrypt salt. The
// GCM tag is appended to Ciphertext.
type SealedPayload struct {
	Version    uint8  `json:"version"`
	N          int    `json:"n"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
	Timestamp  int64  `json:"timestamp"`
}

// Seal encrypts plaintext with a key derived from passphrase.
func Seal(plaintext, passphrase []byte, config *EncryptionConfig) (*SealedPayload, error) {
	if len(plaintext) == 0 {
		return nil, errors.New("plaintext cannot be empty")
	}
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if config == nil {
		config = DefaultEncryptionConfig()
	}

	salt := make([]byte, config.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt, config.SCryptN, config)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &SealedPayload{
		Version:    PayloadVersion,
		N:          config.SCryptN,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
		Timestamp:  time.Now().Unix(),
	}, nil
}

// Open decrypts a payload produced by Seal.
func Open(payload *SealedPayload, passphrase []byte, config *EncryptionConfig) ([]byte, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}
	if payload.Version != PayloadVersion {
		return nil, fmt.Errorf("unsupported payload version: %d", payload.Version)
	}
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if config == nil {
		config = DefaultEncryptionConfig()
	}

	n := payload.N
	if n == 0 {
		n = config.SCryptN
	}

	gcm, err := newGCM(passphrase, payload.Salt, n, config)
	if err != nil {
		return nil, err
	}
	if len(payload.Nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size: %d", len(payload.Nonce))
	}

	plaintext, err := gcm.Open(nil, payload.Nonce, payload.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(passphrase, salt []byte, n int, config *EncryptionConfig) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, n, config.SCryptR, config.SCryptP, config.SCryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
