package pdf

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

// PDFProvider lays out invoices as A4 documents with maroto.
type PDFProvider struct {
	log *zap.Logger
}

func New(log *zap.Logger) invoicedomain.Renderer {
	return &PDFProvider{log: log.Named("providers.pdf")}
}
