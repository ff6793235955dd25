package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createChargeRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	chargeRequest
}

func (s *Server) CreateAdditionalCharge(c *gin.Context) {
	var req createChargeRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.AddCharge(c.Request.Context(), strings.TrimSpace(req.InvoiceID), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListAdditionalCharges(c *gin.Context) {
	resp, err := s.invoiceSvc.ListCharges(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAdditionalCharge(c *gin.Context) {
	if err := s.invoiceSvc.RemoveCharge(c.Request.Context(), c.Param("charge_id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
