// internal/app/features/login/credentials.go
package login

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoCredentials is returned when no admin password is configured.
var ErrNoCredentials = errors.New("admin email and password (or password hash) are required")

// Credentials is the single operator account allowed to sign in.
type Credentials struct {
	Email string
	hash  []byte
}

// NewCredentials builds the operator account. A bcrypt hash is used as-is;
// otherwise the plain password is hashed once at startup.
func NewCredentials(email, password, passwordHash string) (Credentials, error) {
	email = normalize.Email(email)
	if email == "" || (password == "" && passwordHash == "") {
		return Credentials{}, ErrNoCredentials
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return Credentials{}, fmt.Errorf("admin password hash: %w", err)
		}
		return Credentials{Email: email, hash: []byte(passwordHash)}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, fmt.Errorf("hash admin password: %w", err)
	}
	return Credentials{Email: email, hash: hash}, nil
}

// Check reports whether email and password match. The password is always
// compared so a wrong email costs the same as a wrong password.
func (c Credentials) Check(email, password string) bool {
	pwOK := len(c.hash) > 0 && bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	emailOK := subtle.ConstantTimeCompare([]byte(normalize.Email(email)), []byte(c.Email)) == 1
	return pwOK && emailOK
}
