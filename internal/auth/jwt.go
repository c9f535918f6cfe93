package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Realm separates the three token audiences; a customer token is
// never accepted on a supplier or admin route.
type Realm string

const (
	RealmCustomer Realm = "customer"
	RealmSupplier Realm = "supplier"
	RealmAdmin    Realm = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Realm Realm  `json:"realm"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 access tokens.
type JWT struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func (j *JWT) Issue(realm Realm, subjectID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Realm: realm,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

// Verify parses the token and checks it belongs to the given realm.
func (j *JWT) Verify(token string, realm Realm) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Realm != realm {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SubjectID decodes the numeric account ID from the subject claim.
func (c *Claims) SubjectID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
