package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/ledgerbook/internal/payment/domain"
)

type createPaymentRequest struct {
	CustomerID string          `json:"customer_id" binding:"required"`
	InvoiceID  string          `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *string         `json:"date"`
	Method     string          `json:"method" binding:"required,max=32"`
	Reference  string          `json:"reference" binding:"max=100"`
	Notes      string          `json:"notes"`
	IsAdvance  bool            `json:"is_advance"`
}

type updatePaymentRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	Date      *string          `json:"date"`
	Method    *string          `json:"method" binding:"omitempty,min=1,max=32"`
	Reference *string          `json:"reference" binding:"omitempty,max=100"`
	Notes     *string          `json:"notes"`
	IsAdvance *bool            `json:"is_advance"`
}

type refundPaymentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (s *Server) ListPayments(c *gin.Context) {
	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListRequest{
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		InvoiceID:  strings.TrimSpace(c.Query("invoice_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreateRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		InvoiceID:  strings.TrimSpace(req.InvoiceID),
		Amount:     req.Amount,
		Date:       date,
		Method:     strings.TrimSpace(req.Method),
		Reference:  strings.TrimSpace(req.Reference),
		Notes:      req.Notes,
		IsAdvance:  req.IsAdvance,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdatePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.paymentSvc.Update(c.Request.Context(), c.Param("id"), paymentdomain.UpdateRequest{
		Amount:    req.Amount,
		Date:      date,
		Method:    trimmedPtr(req.Method),
		Reference: trimmedPtr(req.Reference),
		Notes:     req.Notes,
		IsAdvance: req.IsAdvance,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RefundPayment records a refund row linked to the payment.
func (s *Server) RefundPayment(c *gin.Context) {
	var req refundPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	resp, err := s.paymentSvc.Refund(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
