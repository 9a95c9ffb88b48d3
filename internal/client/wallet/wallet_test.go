package wallet

import (
	"bytes"
	"crypto/rand"
	"os"
	"testing"
)

func withTempHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
}

func TestCardRoundtrip(t *testing.T) {
	withTempHome(t)
	if _, err := GenerateKey(); err != nil {
		t.Fatal(err)
	}
	card := Card{Number: "4242424242424242", Expiry: "12/27", CVV: "123", Holder: "Ada Lovelace"}
	if err := SaveCard(card); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCard()
	if err != nil {
		t.Fatal(err)
	}
	if got != card {
		t.Fatalf("got %+v, want %+v", got, card)
	}
}

func TestGenerateKey_RefusesOverwrite(t *testing.T) {
	withTempHome(t)
	if _, err := GenerateKey(); err != nil {
		t.Fatal(err)
	}
	if _, err := GenerateKey(); err == nil {
		t.Fatal("second GenerateKey must fail")
	}
}

func TestSaveCard_RequiresKey(t *testing.T) {
	withTempHome(t)
	if err := SaveCard(Card{Number: "4242"}); err == nil {
		t.Fatal("want error without a wallet key")
	}
}

func TestLoadCard_RequiresStoredCard(t *testing.T) {
	withTempHome(t)
	if _, err := GenerateKey(); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCard(); err == nil {
		t.Fatal("want error when no card is stored")
	}
}

func TestLoadCard_TamperedFileRejected(t *testing.T) {
	withTempHome(t)
	if _, err := GenerateKey(); err != nil {
		t.Fatal(err)
	}
	if err := SaveCard(Card{Number: "4242424242424242"}); err != nil {
		t.Fatal(err)
	}
	path, err := CardPath()
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b[len(b)-1] ^= 0x01
	if err := os.WriteFile(path, b, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCard(); err == nil {
		t.Fatal("tampered wallet file must not decrypt")
	}
}

func TestPaths_RequireHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("USERPROFILE", "")
	if _, err := KeyPath(); err == nil {
		t.Fatal("want error without a home directory")
	}
	if _, err := GenerateKey(); err == nil {
		t.Fatal("want error without a home directory")
	}
	if KeyExists() || CardExists() {
		t.Fatal("nothing can exist without a home directory")
	}
}

func TestSealOpen(t *testing.T) {
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	ct, err := seal(key, []byte(`{"number":"4242"}`))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(ct, []byte("4242")) {
		t.Fatal("ciphertext leaks plaintext")
	}
	pt, err := open(key, ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != `{"number":"4242"}` {
		t.Fatalf("roundtrip: %q", pt)
	}

	wrong := make([]byte, KeyLength)
	wrong[0] = 1
	if _, err := open(wrong, ct); err == nil {
		t.Fatal("wrong key must not decrypt")
	}
	if _, err := open(key, ct[:4]); err == nil {
		t.Fatal("truncated ciphertext must be rejected")
	}
	if _, err := seal(make([]byte, 16), []byte("x")); err == nil {
		t.Fatal("short key must be rejected")
	}
}
