package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
	"github.com/kelvinsinsua/scalaya-backend/internal/auth"
)

// AuthHandler exposes the customer and supplier self-service flows.
// Password recovery answers the same way for known and unknown
// emails, and the plain reset token leaves the process only through
// the mailer hook.
type AuthHandler struct {
	Customers *auth.CustomerAuth
	Suppliers *auth.SupplierAuth
	JWT       *auth.JWT

	// SendResetToken hands (email, plain token) to the mailer. Left
	// nil, tokens are generated and stored but not delivered.
	SendResetToken func(email, token string)
}

type customerRegisterReq struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required"`
}

type supplierRegisterReq struct {
	CompanyName   string `json:"company_name" validate:"required"`
	ContactEmail  string `json:"contact_email" validate:"required,email"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Password      string `json:"password" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type recoveryReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Route("/customer/auth", func(r chi.Router) {
		r.Post("/register", h.customerRegister)
		r.Post("/login", h.customerLogin)
		r.Post("/password-recovery", h.customerRecovery)
		r.Post("/password-reset", h.customerReset)
	})
	r.Route("/supplier/auth", func(r chi.Router) {
		r.Post("/register", h.supplierRegister)
		r.Post("/login", h.supplierLogin)
		r.Post("/password-recovery", h.supplierRecovery)
		r.Post("/password-reset", h.supplierReset)
	})
}

// RegisterProtected mounts the routes that need a valid token.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.With(RequireAuth(h.JWT, auth.RealmCustomer)).
		Post("/customer/auth/password-change", h.customerChangePassword)
}

func (h *AuthHandler) customerRegister(w http.ResponseWriter, r *http.Request) {
	var req customerRegisterReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Customers.Register(ctx, auth.CustomerRegistration{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    c.ID,
		"email": c.Email,
		"name":  c.FullName(),
	})
}

func (h *AuthHandler) customerLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Customers.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	token, err := h.JWT.Issue(auth.RealmCustomer, c.ID, c.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) customerRecovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, err := h.Customers.StartPasswordReset(ctx, req.Email)
	if err == nil && h.SendResetToken != nil {
		h.SendResetToken(req.Email, token)
	}
	if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// same answer whether or not the account exists
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the address is registered, a recovery token has been sent",
	})
}

func (h *AuthHandler) customerReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Customers.ResetPassword(ctx, req.Token, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) customerChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if !bindAndValidate(w, r, &req) {
		return
	}
	claims := ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := claims.SubjectID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Customers.Store.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.Customers.ChangePassword(ctx, c, req.CurrentPassword, req.NewPassword); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) supplierRegister(w http.ResponseWriter, r *http.Request) {
	var req supplierRegisterReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.Register(ctx, auth.SupplierRegistration{
		CompanyName:   req.CompanyName,
		ContactEmail:  req.ContactEmail,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Password:      req.Password,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      s.ID,
		"email":   s.ContactEmail,
		"company": s.CompanyName,
	})
}

func (h *AuthHandler) supplierLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	token, err := h.JWT.Issue(auth.RealmSupplier, s.ID, s.ContactEmail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) supplierRecovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, err := h.Suppliers.StartPasswordReset(ctx, req.Email)
	if err == nil && h.SendResetToken != nil {
		h.SendResetToken(req.Email, token)
	}
	if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the address is registered, a recovery token has been sent",
	})
}

func (h *AuthHandler) supplierReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Suppliers.ResetPassword(ctx, req.Token, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrTokenExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
