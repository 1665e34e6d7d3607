package bundle

import (
	"github.com/rextra/rextra/internal/bundle/repository"
	"github.com/rextra/rextra/internal/bundle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bundle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
