package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
)

// jpegQuality is the quality used when re-encoding uploaded covers.
const jpegQuality = 85

// minCoverDimension rejects images too small to be useful as cover art.
const minCoverDimension = 32

// Processor validates, re-encodes and stores uploaded cover images.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// ProcessResult describes a stored cover.
type ProcessResult struct {
	BlurHash string // Placeholder hash for clients to render while loading
	Hash     string // SHA256 of the stored bytes, for ETag validation
	Width    int
	Height   int
}

// Process decodes uploaded image data, re-encodes it as JPEG, computes its
// BlurHash and stores it under the given ID. Any format the registered
// decoders understand (JPEG, PNG, GIF, WebP) is accepted; what lands on
// disk is always JPEG.
func (p *Processor) Process(id string, data []byte) (*ProcessResult, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < minCoverDimension || bounds.Dy() < minCoverDimension {
		return nil, fmt.Errorf("image too small: %dx%d", bounds.Dx(), bounds.Dy())
	}

	hash, err := ComputeBlurHashImage(img)
	if err != nil {
		return nil, fmt.Errorf("compute blurhash: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	if err := p.storage.Save(id, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save cover: %w", err)
	}

	sum, err := p.storage.Hash(id)
	if err != nil {
		return nil, fmt.Errorf("hash cover: %w", err)
	}

	p.logger.Debug("processed cover",
		"id", id,
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"size", buf.Len(),
	)

	return &ProcessResult{
		BlurHash: hash,
		Hash:     sum,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
