package helpers

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim, which carries the guest identifier.
func (c *Claims) UserID() string {
	return c.Subject
}
