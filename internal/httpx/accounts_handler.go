package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelvinsinsua/scalaya-backend/internal/accounts"
	"github.com/kelvinsinsua/scalaya-backend/internal/auth"
)

// AccountsHandler covers the admin side: operator login and the
// customer/supplier management screens.
type AccountsHandler struct {
	Customers *accounts.CustomerRepo
	Suppliers *accounts.SupplierRepo
	Admins    *accounts.AdminRepo
	Addresses *accounts.AddressRepo
	JWT       *auth.JWT
}

func (h *AccountsHandler) RegisterPublic(r chi.Router) {
	r.Post("/admin/login", h.adminLogin)
}

func (h *AccountsHandler) Register(r chi.Router) {
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{id}", h.getCustomer)
	r.Put("/customers/{id}/status", h.setCustomerStatus)
	r.Get("/suppliers", h.listSuppliers)
	r.Get("/suppliers/{id}", h.getSupplier)
	r.Put("/suppliers/{id}/status", h.setSupplierStatus)
	r.Post("/addresses", h.createAddress)
}

func (h *AccountsHandler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Admins.FindByEmail(ctx, req.Email)
	if err != nil || !admin.IsActive() || !auth.VerifyPassword(admin.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := h.Admins.RecordLogin(ctx, admin); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	token, err := h.JWT.Issue(auth.RealmAdmin, admin.ID, admin.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type customerResp struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResp(c *accounts.Customer) customerResp {
	return customerResp{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.FullName(),
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

func (h *AccountsHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	result, err := h.Customers.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]customerResp, 0, len(result))
	for _, c := range result {
		out = append(out, toCustomerResp(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AccountsHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResp(c))
}

type customerStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// setCustomerStatus is the block/unblock switch on the customer screen.
func (h *AccountsHandler) setCustomerStatus(w http.ResponseWriter, r *http.Request) {
	var req customerStatusReq
	if !bindAndValidate(w, r, &req) {
		return
	}
	status, err := accounts.ParseCustomerStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Customers.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	c.Status = status
	if err := h.Customers.Update(ctx, c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResp(c))
}

type supplierResp struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"contact_email"`
	Contact     string `json:"contact_person,omitempty"`
	Status      string `json:"status"`
}

func (h *AccountsHandler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	result, err := h.Suppliers.ListActive(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]supplierResp, 0, len(result))
	for _, s := range result {
		out = append(out, supplierResp{
			ID:          s.ID,
			CompanyName: s.CompanyName,
			Email:       s.ContactEmail,
			Contact:     s.ContactPerson,
			Status:      string(s.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AccountsHandler) getSupplier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Suppliers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, supplierResp{
		ID:          s.ID,
		CompanyName: s.CompanyName,
		Email:       s.ContactEmail,
		Contact:     s.ContactPerson,
		Status:      string(s.Status),
	})
}

type supplierStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// setSupplierStatus is the activate/deactivate switch on the supplier
// screen.
func (h *AccountsHandler) setSupplierStatus(w http.ResponseWriter, r *http.Request) {
	var req supplierStatusReq
	if !bindAndValidate(w, r, &req) {
		return
	}
	status, err := accounts.ParseSupplierStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Suppliers.FindByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.Status = status
	if err := h.Suppliers.Update(ctx, s); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, supplierResp{
		ID:          s.ID,
		CompanyName: s.CompanyName,
		Email:       s.ContactEmail,
		Contact:     s.ContactPerson,
		Status:      string(s.Status),
	})
}

type addressReq struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required,len=2"`
	Phone        string `json:"phone"`
}

func (h *AccountsHandler) createAddress(w http.ResponseWriter, r *http.Request) {
	var req addressReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	a := accounts.NewAddress()
	a.FirstName = req.FirstName
	a.LastName = req.LastName
	a.Company = req.Company
	a.AddressLine1 = req.AddressLine1
	a.AddressLine2 = req.AddressLine2
	a.City = req.City
	a.State = req.State
	a.PostalCode = req.PostalCode
	a.Country = req.Country
	a.Phone = req.Phone

	if err := h.Addresses.Create(ctx, a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": a.ID, "address": a.OneLine()})
}
