package render

import (
	"github.com/tallybook/tallybook/internal/render/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("render.service",
	fx.Provide(pdf.New),
	fx.Provide(NewService),
)
