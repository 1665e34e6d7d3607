package profession

import (
	"github.com/rextra/rextra/internal/profession/repository"
	"github.com/rextra/rextra/internal/profession/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profession.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
