/*
Package keys handles NEAR account key pairs and the credential files
the near CLI keeps under ~/.near-credentials. Keys are ed25519, with
the textual "ed25519:<base58>" encoding used across NEAR tooling.
*/
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/nearlabs/nftoken/pkg/account"
)

// KeyPrefix is the textual key type marker.
const KeyPrefix = "ed25519:"

// Key decoding errors.
var (
	ErrBadKeyPrefix = errors.New("key must start with \"ed25519:\"")
	ErrBadKeyLength = errors.New("unexpected key length")
)

// KeyPair is an ed25519 signing key with its public part.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateKeyPair creates a new random key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// EncodePublicKey returns the "ed25519:<base58>" form of the public key.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return KeyPrefix + base58.Encode(pub)
}

// EncodePrivateKey returns the "ed25519:<base58>" form of the full
// 64-byte private key, the format near CLI credential files use.
func EncodePrivateKey(priv ed25519.PrivateKey) string {
	return KeyPrefix + base58.Encode(priv)
}

// DecodePublicKey parses an "ed25519:<base58>" public key.
func DecodePublicKey(s string) (ed25519.PublicKey, error) {
	b, err := decode(s, ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(b), nil
}

// DecodePrivateKey parses an "ed25519:<base58>" private key.
func DecodePrivateKey(s string) (ed25519.PrivateKey, error) {
	b, err := decode(s, ed25519.PrivateKeySize)
	if err != nil {
		return nil, err
	}
	return ed25519.PrivateKey(b), nil
}

func decode(s string, size int) ([]byte, error) {
	if !strings.HasPrefix(s, KeyPrefix) {
		return nil, ErrBadKeyPrefix
	}
	b, err := base58.Decode(strings.TrimPrefix(s, KeyPrefix))
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: %d instead of %d bytes", ErrBadKeyLength, len(b), size)
	}
	return b, nil
}

// Credentials is the content of one near CLI credential file.
type Credentials struct {
	AccountID  account.ID `json:"account_id"`
	PublicKey  string     `json:"public_key"`
	PrivateKey string     `json:"private_key"`
}

// NewCredentials generates a fresh key pair for the account.
func NewCredentials(id account.ID) (Credentials, error) {
	kp, err := GenerateKeyPair()
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		AccountID:  id,
		PublicKey:  EncodePublicKey(kp.PublicKey),
		PrivateKey: EncodePrivateKey(kp.PrivateKey),
	}, nil
}

// KeyPair decodes the credential keys.
func (c Credentials) KeyPair() (KeyPair, error) {
	pub, err := DecodePublicKey(c.PublicKey)
	if err != nil {
		return KeyPair{}, err
	}
	priv, err := DecodePrivateKey(c.PrivateKey)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// Save writes the credentials to dir/<account>.json with owner-only
// permissions, creating the directory when needed.
func (c Credentials) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, c.AccountID.String()+".json")
	return path, os.WriteFile(path, b, 0600)
}

// Load reads a credential file.
func Load(path string) (Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return Credentials{}, fmt.Errorf("malformed credential file %s: %w", path, err)
	}
	return c, nil
}
