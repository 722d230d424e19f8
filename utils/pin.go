package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"github.com/rixeldev/studio-api/config"
)

// PinLength is the number of digits in a generated gallery PIN.
const PinLength = 6

// ErrPinSecretMissing is returned when the keyed hash secret is not configured.
var ErrPinSecretMissing = errors.New("PIN_HASH_SECRET is not configured")

// HashPin returns the hex encoded HMAC-SHA256 of the trimmed PIN, keyed with
// the server-side secret. The keyed hash keeps a leaked hash table useless
// for offline brute force without the secret.
func HashPin(pin string) (string, error) {
	cfg := config.Get()
	if cfg.PinHashSecret == "" {
		return "", ErrPinSecretMissing
	}

	mac := hmac.New(sha256.New, []byte(cfg.PinHashSecret))
	mac.Write([]byte(strings.TrimSpace(pin)))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// GeneratePinCandidate draws a random numeric PIN of PinLength digits.
func GeneratePinCandidate() (string, error) {
	var b strings.Builder
	for i := 0; i < PinLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
