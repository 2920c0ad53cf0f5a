package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeyBytes es la entropía de un bearer token; hex lo deja en 40 caracteres.
const KeyBytes = 20

// KeyLength es el largo del token codificado.
const KeyLength = KeyBytes * 2

// GenerateKey genera un bearer token aleatorio de KeyLength caracteres hex.
func GenerateKey() (string, error) {
	b := make([]byte, KeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tokens: read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidKey verifica la forma del token sin tocar el storage.
func ValidKey(key string) bool {
	if len(key) != KeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Prefix retorna los primeros caracteres del token, para logs.
func Prefix(key string) string {
	if len(key) <= 6 {
		return key
	}
	return key[:6] + "…"
}

// SHA256Hex devuelve sha256(input) en hexadecimal.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
