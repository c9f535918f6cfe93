package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWT() *JWT {
	return &JWT{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "backoffice-api"}
}

func TestJWTRoundTrip(t *testing.T) {
	j := testJWT()
	token, err := j.Issue(RealmCustomer, 42, "buyer@example.com")
	require.NoError(t, err)

	claims, err := j.Verify(token, RealmCustomer)
	require.NoError(t, err)
	assert.Equal(t, RealmCustomer, claims.Realm)
	assert.Equal(t, "buyer@example.com", claims.Email)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestJWTWrongRealm(t *testing.T) {
	j := testJWT()
	token, err := j.Issue(RealmCustomer, 42, "buyer@example.com")
	require.NoError(t, err)

	_, err = j.Verify(token, RealmAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTWrongSecret(t *testing.T) {
	j := testJWT()
	token, err := j.Issue(RealmSupplier, 7, "vendor@example.com")
	require.NoError(t, err)

	other := &JWT{Secret: []byte("different"), TTL: time.Hour}
	_, err = other.Verify(token, RealmSupplier)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpired(t *testing.T) {
	j := testJWT()
	j.TTL = -time.Minute
	token, err := j.Issue(RealmCustomer, 1, "buyer@example.com")
	require.NoError(t, err)

	_, err = j.Verify(token, RealmCustomer)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbage(t *testing.T) {
	j := testJWT()
	_, err := j.Verify("not.a.token", RealmCustomer)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
