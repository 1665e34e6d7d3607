package tokenledger

import (
	"github.com/rextra/rextra/internal/tokenledger/repository"
	"github.com/rextra/rextra/internal/tokenledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tokenledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
