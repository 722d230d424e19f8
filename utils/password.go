package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash for the admin password, suitable for
// the ADMIN_PASSWORD_HASH configuration value.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
