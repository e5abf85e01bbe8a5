package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/playdeckapp/playdeck-server/internal/api"
	"github.com/playdeckapp/playdeck-server/internal/config"
	"github.com/playdeckapp/playdeck-server/internal/logger"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	storages := do.MustInvoke[*ImageStorages](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		Session:   do.MustInvoke[*service.SessionService](i),
		Admin:     do.MustInvoke[*service.AdminService](i),
		Game:      do.MustInvoke[*service.GameService](i),
		Library:   do.MustInvoke[*service.LibraryService](i),
		Objective: do.MustInvoke[*service.ObjectiveService](i),
		Note:      do.MustInvoke[*service.NoteService](i),
		Canvas:    do.MustInvoke[*service.CanvasService](i),
		Fusion:    do.MustInvoke[*service.FusionService](i),
	}

	storage := &api.StorageServices{
		Covers: storages.Covers,
	}

	handler := api.NewServer(storeHandle.Store, services, storage, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
