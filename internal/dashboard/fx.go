package dashboard

import (
	"github.com/smallbiznis/ledgerbook/internal/dashboard/repository"
	"github.com/smallbiznis/ledgerbook/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
