package auth

import "golang.org/x/crypto/bcrypt"

// Staff passwords are stored as bcrypt hashes only; cost 12 keeps a hash
// around a quarter second on current hardware.
const bcryptCost = 12

// HashPassword hashes a staff account password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a stored hash against a login attempt. A nil return
// means the password matches.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
