package api

import (
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Session   *service.SessionService
	Admin     *service.AdminService
	Game      *service.GameService
	Library   *service.LibraryService
	Objective *service.ObjectiveService
	Note      *service.NoteService
	Canvas    *service.CanvasService
	Fusion    *service.FusionService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	Covers *images.Storage // Game cover images
}
