package feedback

import (
	"github.com/rextra/rextra/internal/feedback/repository"
	"github.com/rextra/rextra/internal/feedback/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feedback.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
