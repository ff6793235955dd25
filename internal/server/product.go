package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
)

type createProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description"`
	HSNSAC      string           `json:"hsn_sac" binding:"max=16"`
	Price       decimal.Decimal  `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Unit        string           `json:"unit" binding:"max=16"`
	IsTaxable   *bool            `json:"is_taxable"`
	Category    string           `json:"category" binding:"max=100"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	HSNSAC      *string          `json:"hsn_sac" binding:"omitempty,max=16"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Unit        *string          `json:"unit" binding:"omitempty,max=16"`
	IsTaxable   *bool            `json:"is_taxable"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	IsActive    *bool            `json:"is_active"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		HSNSAC:      strings.TrimSpace(req.HSNSAC),
		Price:       req.Price,
		TaxRate:     req.TaxRate,
		Unit:        strings.TrimSpace(req.Unit),
		IsTaxable:   req.IsTaxable,
		Category:    strings.TrimSpace(req.Category),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	s.listProducts(c, false)
}

func (s *Server) ListAllProducts(c *gin.Context) {
	s.listProducts(c, true)
}

func (s *Server) listProducts(c *gin.Context, includeInactive bool) {
	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Search:          strings.TrimSpace(c.Query("search")),
		Category:        strings.TrimSpace(c.Query("category")),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), c.Param("id"), productdomain.UpdateRequest{
		Name:        trimmedPtr(req.Name),
		Description: req.Description,
		HSNSAC:      trimmedPtr(req.HSNSAC),
		Price:       req.Price,
		TaxRate:     req.TaxRate,
		Unit:        trimmedPtr(req.Unit),
		IsTaxable:   req.IsTaxable,
		Category:    trimmedPtr(req.Category),
		IsActive:    req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Archive(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "is_active": false}})
}
