// Package di provides dependency injection configuration for the PlayDeck server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/playdeckapp/playdeck-server/internal/auth"
	"github.com/playdeckapp/playdeck-server/internal/config"
	"github.com/playdeckapp/playdeck-server/internal/di/providers"
	"github.com/playdeckapp/playdeck-server/internal/logger"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorages)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideObjectiveService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideCanvasService)
	do.Provide(injector, providers.ProvideFusionService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ImageStorages](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.GameService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.ObjectiveService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.CanvasService](injector)
	_ = do.MustInvoke[*service.FusionService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server last, once everything it depends on is up
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
