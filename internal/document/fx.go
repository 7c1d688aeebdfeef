package document

import (
	"github.com/tallybook/tallybook/internal/document/repository"
	"github.com/tallybook/tallybook/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
