package payment

import (
	"github.com/tallybook/tallybook/internal/payment/repository"
	"github.com/tallybook/tallybook/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
