package member

import (
	"github.com/rextra/rextra/internal/member/repository"
	"github.com/rextra/rextra/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
