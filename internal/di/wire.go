//go:build wireinject
// +build wireinject

package di

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/carefleet/carefleet-backend/internal/app"
	"github.com/carefleet/carefleet-backend/internal/config"
)

func InitializeApp(cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
