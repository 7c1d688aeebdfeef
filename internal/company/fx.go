package company

import (
	"github.com/tallybook/tallybook/internal/company/repository"
	"github.com/tallybook/tallybook/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
