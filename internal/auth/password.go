package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is deliberately above bcrypt.DefaultCost; login latency is an
// acceptable trade for slower offline cracking.
const bcryptCost = 12

// HashPassword derives a salted bcrypt hash from a plaintext password. The
// plaintext is never persisted or logged anywhere in this codebase.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. It fails closed: a
// malformed hash, an over-long password, or any internal error all yield
// false without distinguishing which part failed.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
