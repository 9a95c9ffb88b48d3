// Package wallet stores the default payment card encrypted at rest, so the
// booking payment sub-flow can run without re-prompting for card data.
package wallet

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// KeyLength defines AES-256 key size.
const KeyLength = 32

const (
	keyFile  = ".chargercontrol_wallet_key"
	cardFile = ".chargercontrol_wallet"
)

type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Holder string `json:"holder"`
}

// Mask returns the display/paymentMethod form of the card, last four only.
func (c Card) Mask() string {
	n := c.Number
	if len(n) > 4 {
		n = n[len(n)-4:]
	}
	return "card ****" + n
}

// KeyPath returns the wallet key location.
func KeyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, keyFile), nil
}

// CardPath returns the encrypted card location.
func CardPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, cardFile), nil
}

// KeyExists checks if the wallet key file exists.
func KeyExists() bool {
	path, err := KeyPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// CardExists checks if a card is stored.
func CardExists() bool {
	path, err := CardPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// GenerateKey creates and stores a new random key. An existing key is never
// overwritten: it would orphan the stored card.
func GenerateKey() ([]byte, error) {
	path, err := KeyPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errors.New("wallet key already exists")
	}
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	b64 := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(b64), 0600); err != nil {
		return nil, err
	}
	return key, nil
}

func loadKey() ([]byte, error) {
	path, err := KeyPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(string(b))
	if err != nil {
		return nil, err
	}
	if len(key) != KeyLength {
		return nil, errors.New("invalid key length")
	}
	return key, nil
}

// SaveCard encrypts and stores the card under the wallet key.
func SaveCard(card Card) error {
	key, err := loadKey()
	if err != nil {
		return errors.New("wallet not initialized, run wallet init")
	}
	plaintext, err := json.Marshal(card)
	if err != nil {
		return err
	}
	ct, err := seal(key, plaintext)
	if err != nil {
		return err
	}
	path, err := CardPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, ct, 0600)
}

// LoadCard decrypts and returns the stored card.
func LoadCard() (Card, error) {
	key, err := loadKey()
	if err != nil {
		return Card{}, errors.New("wallet not initialized, run wallet init")
	}
	path, err := CardPath()
	if err != nil {
		return Card{}, err
	}
	ct, err := os.ReadFile(path)
	if err != nil {
		return Card{}, errors.New("no stored card, run wallet set-card")
	}
	pt, err := open(key, ct)
	if err != nil {
		return Card{}, err
	}
	var card Card
	if err := json.Unmarshal(pt, &card); err != nil {
		return Card{}, err
	}
	return card, nil
}
