package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

const refreshKeyPrefix = "refresh:"

// RefreshSession is what the store remembers about an issued refresh token.
type RefreshSession struct {
	UserID    uuid.UUID `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// SessionStore keeps encrypted refresh-token sessions in Redis, keyed by token id.
// A token id that is missing from the store has been rotated, revoked or has expired.
type SessionStore struct {
	encryptionKey []byte
}

var (
	setSessionValue  = Set
	takeSessionValue = GetDel
	delSessionValue  = Del
)

// NewSessionStore creates a new session store from a 32-byte hex key.
func NewSessionStore(encryptionKeyHex string) (*SessionStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &SessionStore{encryptionKey: key}, nil
}

// Save stores the session for tokenID until expiration.
func (s *SessionStore) Save(ctx context.Context, tokenID string, data *RefreshSession, expiration time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	encrypted, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	return setSessionValue(ctx, refreshKeyPrefix+tokenID, encrypted, expiration)
}

// Consume returns the session for tokenID and removes it in the same step,
// so a token id can be redeemed at most once.
func (s *SessionStore) Consume(ctx context.Context, tokenID string) (*RefreshSession, error) {
	encrypted, err := takeSessionValue(ctx, refreshKeyPrefix+tokenID)
	if err != nil {
		return nil, err
	}

	plain, err := s.decrypt(encrypted)
	if err != nil {
		return nil, err
	}

	var data RefreshSession
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Revoke removes the session for tokenID.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	return delSessionValue(ctx, refreshKeyPrefix+tokenID)
}

func (s *SessionStore) encrypt(plaintext []byte) (string, error) {
	gcm, err := s.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return hex.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

func (s *SessionStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func (s *SessionStore) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
