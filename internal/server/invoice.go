package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
)

type lineRequest struct {
	ProductID          string           `json:"product_id"`
	Description        string           `json:"description" binding:"max=500"`
	HSNSAC             string           `json:"hsn_sac" binding:"max=16"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
}

func (r lineRequest) toDomain() itemdomain.CreateRequest {
	return itemdomain.CreateRequest{
		ProductID:          strings.TrimSpace(r.ProductID),
		Description:        strings.TrimSpace(r.Description),
		HSNSAC:             strings.TrimSpace(r.HSNSAC),
		Quantity:           r.Quantity,
		UnitPrice:          r.UnitPrice,
		DiscountPercentage: r.DiscountPercentage,
		DiscountAmount:     r.DiscountAmount,
		TaxRate:            r.TaxRate,
	}
}

type chargeRequest struct {
	ChargeName   string           `json:"charge_name" binding:"required,max=200"`
	ChargeAmount decimal.Decimal  `json:"charge_amount"`
	IsTaxable    bool             `json:"is_taxable"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
}

func (r chargeRequest) toDomain() chargedomain.CreateRequest {
	req := chargedomain.CreateRequest{
		ChargeName:   strings.TrimSpace(r.ChargeName),
		ChargeAmount: r.ChargeAmount,
		IsTaxable:    r.IsTaxable,
		TaxRate:      decimal.Zero,
	}
	if r.TaxRate != nil {
		req.TaxRate = *r.TaxRate
	}
	return req
}

type createInvoiceRequest struct {
	CustomerID        string          `json:"customer_id" binding:"required"`
	Date              *string         `json:"date"`
	DueDate           *string         `json:"due_date"`
	Status            string          `json:"status" binding:"omitempty,oneof=draft sent"`
	PONumber          string          `json:"po_number" binding:"max=64"`
	PODate            *string         `json:"po_date"`
	TransportName     string          `json:"transport_name" binding:"max=200"`
	VehicleNumber     string          `json:"vehicle_number" binding:"max=32"`
	EwayBillNumber    string          `json:"eway_bill_number" binding:"max=32"`
	EwayBillDate      *string         `json:"eway_bill_date"`
	ShippingDetails   map[string]any  `json:"shipping_details"`
	PlaceOfSupply     string          `json:"place_of_supply"`
	Notes             string          `json:"notes"`
	Terms             string          `json:"terms"`
	InvoiceType       string          `json:"invoice_type" binding:"max=32"`
	IsTemplate        bool            `json:"is_template"`
	Items             []lineRequest   `json:"items" binding:"dive"`
	AdditionalCharges []chargeRequest `json:"additional_charges" binding:"dive"`
}

type updateInvoiceRequest struct {
	CustomerID      *string        `json:"customer_id"`
	Date            *string        `json:"date"`
	DueDate         *string        `json:"due_date"`
	Status          *string        `json:"status" binding:"omitempty,oneof=draft sent cancelled"`
	PONumber        *string        `json:"po_number" binding:"omitempty,max=64"`
	PODate          *string        `json:"po_date"`
	TransportName   *string        `json:"transport_name" binding:"omitempty,max=200"`
	VehicleNumber   *string        `json:"vehicle_number" binding:"omitempty,max=32"`
	EwayBillNumber  *string        `json:"eway_bill_number" binding:"omitempty,max=32"`
	EwayBillDate    *string        `json:"eway_bill_date"`
	ShippingDetails map[string]any `json:"shipping_details"`
	PlaceOfSupply   *string        `json:"place_of_supply"`
	Notes           *string        `json:"notes"`
	Terms           *string        `json:"terms"`
	InvoiceType     *string        `json:"invoice_type" binding:"omitempty,max=32"`
	IsTemplate      *bool          `json:"is_template"`
	Items           []lineRequest  `json:"items" binding:"omitempty,dive"`
}

type cancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	dates, err := parseDates(map[string]*string{
		"date":           req.Date,
		"due_date":       req.DueDate,
		"po_date":        req.PODate,
		"eway_bill_date": req.EwayBillDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	in := invoicedomain.CreateRequest{
		CustomerID:      strings.TrimSpace(req.CustomerID),
		Date:            dates["date"],
		DueDate:         dates["due_date"],
		Status:          strings.TrimSpace(req.Status),
		PONumber:        strings.TrimSpace(req.PONumber),
		PODate:          dates["po_date"],
		TransportName:   strings.TrimSpace(req.TransportName),
		VehicleNumber:   strings.TrimSpace(req.VehicleNumber),
		EwayBillNumber:  strings.TrimSpace(req.EwayBillNumber),
		EwayBillDate:    dates["eway_bill_date"],
		ShippingDetails: req.ShippingDetails,
		PlaceOfSupply:   strings.TrimSpace(req.PlaceOfSupply),
		Notes:           req.Notes,
		Terms:           req.Terms,
		InvoiceType:     strings.TrimSpace(req.InvoiceType),
		IsTemplate:      req.IsTemplate,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, item.toDomain())
	}
	for _, charge := range req.AdditionalCharges {
		in.AdditionalCharges = append(in.AdditionalCharges, charge.toDomain())
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	dates, err := parseDates(map[string]*string{
		"date":           req.Date,
		"due_date":       req.DueDate,
		"po_date":        req.PODate,
		"eway_bill_date": req.EwayBillDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	in := invoicedomain.UpdateRequest{
		CustomerID:      trimmedPtr(req.CustomerID),
		Date:            dates["date"],
		DueDate:         dates["due_date"],
		Status:          trimmedPtr(req.Status),
		PONumber:        trimmedPtr(req.PONumber),
		PODate:          dates["po_date"],
		TransportName:   trimmedPtr(req.TransportName),
		VehicleNumber:   trimmedPtr(req.VehicleNumber),
		EwayBillNumber:  trimmedPtr(req.EwayBillNumber),
		EwayBillDate:    dates["eway_bill_date"],
		ShippingDetails: req.ShippingDetails,
		PlaceOfSupply:   trimmedPtr(req.PlaceOfSupply),
		Notes:           req.Notes,
		Terms:           req.Terms,
		InvoiceType:     trimmedPtr(req.InvoiceType),
		IsTemplate:      req.IsTemplate,
	}
	if req.Items != nil {
		in.Items = make([]itemdomain.CreateRequest, 0, len(req.Items))
		for _, item := range req.Items {
			in.Items = append(in.Items, item.toDomain())
		}
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CancelInvoice accepts an optional {"reason": "..."} body.
func (s *Server) CancelInvoice(c *gin.Context) {
	var req cancelInvoiceRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	resp, err := s.invoiceSvc.Cancel(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	doc, err := s.invoiceSvc.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func parseDates(raw map[string]*string) (map[string]*time.Time, error) {
	out := make(map[string]*time.Time, len(raw))
	for field, value := range raw {
		parsed, err := parseOptionalDate(field, value)
		if err != nil {
			return nil, err
		}
		out[field] = parsed
	}
	return out, nil
}
