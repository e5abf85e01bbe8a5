package providers

import (
	"github.com/samber/do/v2"

	"github.com/playdeckapp/playdeck-server/internal/auth"
	"github.com/playdeckapp/playdeck-server/internal/logger"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideAdminService provides the user administration service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, log.Logger), nil
}

// ProvideGameService provides the game catalog service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameService(storeHandle.Store, storages.Covers, processor, log.Logger), nil
}

// ProvideLibraryService provides the per-user library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, log.Logger), nil
}

// ProvideObjectiveService provides the objective and task service.
func ProvideObjectiveService(i do.Injector) (*service.ObjectiveService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	libraryService := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewObjectiveService(storeHandle.Store, libraryService, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	libraryService := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, libraryService, log.Logger), nil
}

// ProvideCanvasService provides the canvas service.
func ProvideCanvasService(i do.Injector) (*service.CanvasService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	libraryService := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCanvasService(storeHandle.Store, libraryService, log.Logger), nil
}

// ProvideFusionService provides the game fusion service.
func ProvideFusionService(i do.Injector) (*service.FusionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFusionService(storeHandle.Store, storages.Covers, log.Logger), nil
}
