package di

import (
	"github.com/polkiloo/studiodesk/internal/adapter/payment"
	"github.com/polkiloo/studiodesk/internal/app"
	"github.com/polkiloo/studiodesk/internal/config"
	"github.com/polkiloo/studiodesk/internal/logger"
	"github.com/polkiloo/studiodesk/internal/pkg/auth"
	"github.com/polkiloo/studiodesk/internal/pricing"
	"github.com/polkiloo/studiodesk/internal/server/http/router"
	"github.com/polkiloo/studiodesk/internal/storage/postgres"
	"github.com/polkiloo/studiodesk/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		pricing.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
