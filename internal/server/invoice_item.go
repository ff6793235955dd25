package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
)

type createInvoiceItemRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	lineRequest
}

type updateInvoiceItemRequest struct {
	ProductID          *string          `json:"product_id"`
	Description        *string          `json:"description" binding:"omitempty,max=500"`
	HSNSAC             *string          `json:"hsn_sac" binding:"omitempty,max=16"`
	Quantity           *decimal.Decimal `json:"quantity"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
}

func (s *Server) ListInvoiceItems(c *gin.Context) {
	resp, err := s.invoiceSvc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceItem(c *gin.Context) {
	resp, err := s.invoiceSvc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateInvoiceItem(c *gin.Context) {
	var req createInvoiceItemRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.AddItem(c.Request.Context(), strings.TrimSpace(req.InvoiceID), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceItem(c *gin.Context) {
	var req updateInvoiceItemRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.UpdateItem(c.Request.Context(), c.Param("id"), itemdomain.UpdateRequest{
		ProductID:          trimmedPtr(req.ProductID),
		Description:        trimmedPtr(req.Description),
		HSNSAC:             trimmedPtr(req.HSNSAC),
		Quantity:           req.Quantity,
		UnitPrice:          req.UnitPrice,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		TaxRate:            req.TaxRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
