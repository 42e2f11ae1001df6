package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/studiodesk/internal/app"
	"github.com/polkiloo/studiodesk/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.StudioFacade) handlers.StudioFacade { return f }),
	fx.Provide(Setup),
)
