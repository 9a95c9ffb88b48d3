package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// cardAAD binds ciphertexts to this wallet; a wallet file cannot be decrypted
// as anything else, and nothing else decrypts as a card.
const cardAAD = "chargercontrol:card"

// seal encrypts a card payload with AES-256-GCM under the wallet key.
// Output layout is nonce||ciphertext.
func seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := cardCipher(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, plaintext, []byte(cardAAD))...), nil
}

// open decrypts data produced by seal under the same wallet key.
func open(key, ciphertext []byte) ([]byte, error) {
	gcm, err := cardCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("wallet file truncated")
	}
	nonce, ct := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ct, []byte(cardAAD))
}

func cardCipher(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("wallet key must be %d bytes", KeyLength)
	}
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blk)
}
