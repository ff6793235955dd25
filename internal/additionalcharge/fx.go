package additionalcharge

import (
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/repository"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("additionalcharge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
