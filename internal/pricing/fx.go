package pricing

import (
	"github.com/rextra/rextra/internal/pricing/repository"
	"github.com/rextra/rextra/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
