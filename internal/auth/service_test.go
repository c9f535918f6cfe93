package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
)

// fakeCustomerStore keeps customers in a map, matching the repository
// contract (ErrNotFound on misses).
type fakeCustomerStore struct {
	nextID    int64
	customers map[int64]*accounts.Customer
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: map[int64]*accounts.Customer{}}
}

func (s *fakeCustomerStore) Create(_ context.Context, c *accounts.Customer) error {
	s.nextID++
	c.ID = s.nextID
	s.customers[c.ID] = c
	return nil
}

func (s *fakeCustomerStore) Update(_ context.Context, c *accounts.Customer) error {
	if _, ok := s.customers[c.ID]; !ok {
		return accounts.ErrNotFound
	}
	s.customers[c.ID] = c
	return nil
}

func (s *fakeCustomerStore) FindByID(_ context.Context, id int64) (*accounts.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return c, nil
}

func (s *fakeCustomerStore) FindByEmail(_ context.Context, email string) (*accounts.Customer, error) {
	for _, c := range s.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func (s *fakeCustomerStore) FindByResetToken(_ context.Context, tokenHash string) (*accounts.Customer, error) {
	for _, c := range s.customers {
		if c.ResetTokenHash != nil && *c.ResetTokenHash == tokenHash {
			return c, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func newTestCustomerAuth() (*CustomerAuth, *fakeCustomerStore) {
	store := newFakeCustomerStore()
	return &CustomerAuth{Store: store, BcryptCost: bcrypt.MinCost}, store
}

func registration() CustomerRegistration {
	return CustomerRegistration{
		Email:     "buyer@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "Sup3rSecret",
	}
}

func TestCustomerRegister(t *testing.T) {
	a, _ := newTestCustomerAuth()

	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, accounts.CustomerActive, c.Status)
	assert.NotEqual(t, "Sup3rSecret", c.PasswordHash)
	assert.True(t, VerifyPassword(c.PasswordHash, "Sup3rSecret"))
}

func TestCustomerRegisterDuplicateEmail(t *testing.T) {
	a, _ := newTestCustomerAuth()

	_, err := a.Register(context.Background(), registration())
	require.NoError(t, err)
	_, err = a.Register(context.Background(), registration())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCustomerRegisterWeakPassword(t *testing.T) {
	a, _ := newTestCustomerAuth()

	reg := registration()
	reg.Password = "short"
	_, err := a.Register(context.Background(), reg)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCustomerAuthenticate(t *testing.T) {
	a, _ := newTestCustomerAuth()
	_, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	c, err := a.Authenticate(context.Background(), "buyer@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", c.Email)

	_, err = a.Authenticate(context.Background(), "buyer@example.com", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(context.Background(), "nobody@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerAuthenticateBlocked(t *testing.T) {
	a, store := newTestCustomerAuth()
	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	store.customers[c.ID].Status = accounts.CustomerBlocked
	_, err = a.Authenticate(context.Background(), "buyer@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetLifecycle(t *testing.T) {
	a, store := newTestCustomerAuth()
	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	token, err := a.StartPasswordReset(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// only the hash is persisted
	stored := store.customers[c.ID]
	require.NotNil(t, stored.ResetTokenHash)
	assert.NotEqual(t, token, *stored.ResetTokenHash)
	assert.Equal(t, HashToken(token), *stored.ResetTokenHash)

	err = a.ResetPassword(context.Background(), token, "N3wPassword")
	require.NoError(t, err)

	// new password works, token fields are cleared
	_, err = a.Authenticate(context.Background(), "buyer@example.com", "N3wPassword")
	assert.NoError(t, err)
	assert.Nil(t, store.customers[c.ID].ResetTokenHash)
	assert.Nil(t, store.customers[c.ID].ResetTokenExpires)

	// spent tokens no longer resolve
	err = a.ResetPassword(context.Background(), token, "An0therPass")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestPasswordResetBlockedCustomer(t *testing.T) {
	a, store := newTestCustomerAuth()
	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	store.customers[c.ID].Status = accounts.CustomerBlocked

	_, err = a.StartPasswordReset(context.Background(), "buyer@example.com")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
	assert.Nil(t, store.customers[c.ID].ResetTokenHash)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	a, _ := newTestCustomerAuth()
	_, err := a.StartPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	a, store := newTestCustomerAuth()
	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	token, err := a.StartPasswordReset(context.Background(), "buyer@example.com")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	store.customers[c.ID].ResetTokenExpires = &past

	err = a.ResetPassword(context.Background(), token, "N3wPassword")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	a, _ := newTestCustomerAuth()
	c, err := a.Register(context.Background(), registration())
	require.NoError(t, err)

	err = a.ChangePassword(context.Background(), c, "WrongPass1", "N3wPassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = a.ChangePassword(context.Background(), c, "Sup3rSecret", "weak")
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = a.ChangePassword(context.Background(), c, "Sup3rSecret", "N3wPassword")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(c.PasswordHash, "N3wPassword"))
}
