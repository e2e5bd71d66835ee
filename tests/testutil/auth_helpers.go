package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestSigningKey signs tokens minted by NewTestToken
var TestSigningKey = []byte("tailoring-orders-test-key")

// NewTestToken mints an HS256 bearer token for subject. The portal only reads
// the subject; signature checks belong to the order service.
func NewTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "https://tailor.test/",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TestSigningKey)
	if err != nil {
		panic(err)
	}
	return signed
}

// BearerHeader returns the Authorization header value for token
func BearerHeader(token string) string {
	return "Bearer " + token
}
