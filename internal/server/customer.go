package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
)

type createCustomerRequest struct {
	Name            string           `json:"name" binding:"required,max=200"`
	Contact         string           `json:"contact" binding:"max=200"`
	Email           string           `json:"email" binding:"omitempty,email"`
	Phone           string           `json:"phone" binding:"max=32"`
	BillingAddress  map[string]any   `json:"billing_address"`
	ShippingAddress map[string]any   `json:"shipping_address"`
	GSTNo           string           `json:"gst_no" binding:"omitempty,len=15"`
	PlaceOfSupply   string           `json:"place_of_supply"`
	PaymentTerms    *int             `json:"payment_terms" binding:"omitempty,gte=0,lte=365"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	CompanyType     string           `json:"company_type"`
	Notes           string           `json:"notes"`
}

type updateCustomerRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Contact         *string          `json:"contact" binding:"omitempty,max=200"`
	Email           *string          `json:"email" binding:"omitempty,email"`
	Phone           *string          `json:"phone" binding:"omitempty,max=32"`
	BillingAddress  map[string]any   `json:"billing_address"`
	ShippingAddress map[string]any   `json:"shipping_address"`
	GSTNo           *string          `json:"gst_no" binding:"omitempty,len=15"`
	PlaceOfSupply   *string          `json:"place_of_supply"`
	PaymentTerms    *int             `json:"payment_terms" binding:"omitempty,gte=0,lte=365"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	CompanyType     *string          `json:"company_type"`
	Notes           *string          `json:"notes"`
	IsActive        *bool            `json:"is_active"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:            strings.TrimSpace(req.Name),
		Contact:         strings.TrimSpace(req.Contact),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		GSTNo:           strings.TrimSpace(req.GSTNo),
		PlaceOfSupply:   strings.TrimSpace(req.PlaceOfSupply),
		PaymentTerms:    req.PaymentTerms,
		CreditLimit:     req.CreditLimit,
		CompanyType:     strings.TrimSpace(req.CompanyType),
		Notes:           req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// ListCustomers returns active customers; /customers/all includes inactive ones.
func (s *Server) ListCustomers(c *gin.Context) {
	s.listCustomers(c, false)
}

func (s *Server) ListAllCustomers(c *gin.Context) {
	s.listCustomers(c, true)
}

func (s *Server) listCustomers(c *gin.Context, includeInactive bool) {
	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Search:          strings.TrimSpace(c.Query("search")),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), c.Param("id"), customerdomain.UpdateCustomerRequest{
		Name:            trimmedPtr(req.Name),
		Contact:         trimmedPtr(req.Contact),
		Email:           trimmedPtr(req.Email),
		Phone:           trimmedPtr(req.Phone),
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		GSTNo:           trimmedPtr(req.GSTNo),
		PlaceOfSupply:   trimmedPtr(req.PlaceOfSupply),
		PaymentTerms:    req.PaymentTerms,
		CreditLimit:     req.CreditLimit,
		CompanyType:     trimmedPtr(req.CompanyType),
		Notes:           req.Notes,
		IsActive:        req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DeleteCustomer deactivates the customer. Rows referenced by invoices and
// payments are never removed.
func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "is_active": false}})
}
