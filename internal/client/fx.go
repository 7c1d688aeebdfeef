package client

import (
	"github.com/tallybook/tallybook/internal/client/repository"
	"github.com/tallybook/tallybook/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
