package invoiceitem

import (
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/repository"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoiceitem.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
