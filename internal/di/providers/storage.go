package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/playdeckapp/playdeck-server/internal/config"
	"github.com/playdeckapp/playdeck-server/internal/logger"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
)

// ImageStorages groups the image storage services.
type ImageStorages struct {
	Covers *images.Storage
}

// ProvideImageStorages provides the image storage services.
func ProvideImageStorages(i do.Injector) (*ImageStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	covers, err := images.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	log.Info("Image storage initialized")

	return &ImageStorages{Covers: covers}, nil
}

// ProvideImageProcessor provides the image processor for cover art.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storages := do.MustInvoke[*ImageStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storages.Covers, log.Logger), nil
}
