package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"testing"

	"github.com/playdeckapp/playdeck-server/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	t.Run("stores a PNG upload as JPEG with blurhash", func(t *testing.T) {
		processor := setupTestProcessor(t)
		gameID := "game-test-001"

		result, err := processor.Process(gameID, makeTestPNG(t, 200, 300))
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.NotEmpty(t, result.BlurHash)
		assert.Len(t, result.Hash, 64, "hash should be 64 characters (SHA256)")
		assert.Equal(t, 200, result.Width)
		assert.Equal(t, 300, result.Height)

		// Verify file was created.
		assert.True(t, processor.storage.Exists(gameID))

		// What lands on disk is always JPEG, regardless of upload format.
		data, err := processor.storage.Get(gameID)
		require.NoError(t, err)
		_, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("accepts a JPEG upload", func(t *testing.T) {
		processor := setupTestProcessor(t)

		img := image.NewRGBA(image.Rect(0, 0, 120, 120))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, img, nil))

		result, err := processor.Process("game-jpeg", buf.Bytes())
		require.NoError(t, err)
		assert.NotEmpty(t, result.BlurHash)
	})

	t.Run("rejects data that is not an image", func(t *testing.T) {
		processor := setupTestProcessor(t)

		result, err := processor.Process("game-bad", []byte("not an image"))
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "decode image")
		assert.False(t, processor.storage.Exists("game-bad"))
	})

	t.Run("rejects tiny images", func(t *testing.T) {
		processor := setupTestProcessor(t)

		result, err := processor.Process("game-tiny", makeTestPNG(t, 8, 8))
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "image too small")
	})

	t.Run("reprocessing the same upload produces the same hash", func(t *testing.T) {
		processor := setupTestProcessor(t)
		data := makeTestPNG(t, 100, 150)

		result1, err := processor.Process("game-hash", data)
		require.NoError(t, err)
		result2, err := processor.Process("game-hash", data)
		require.NoError(t, err)

		assert.Equal(t, result1.Hash, result2.Hash)
		assert.Equal(t, result1.BlurHash, result2.BlurHash)
	})
}

func TestComputeBlurHash(t *testing.T) {
	t.Run("computes hash from file", func(t *testing.T) {
		dir := t.TempDir()
		path := dir + "/cover.png"
		writeTestPNGFile(t, path, 64, 96)

		hash, err := ComputeBlurHash(path)
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		hash, err := ComputeBlurHash("/non/existent/cover.png")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

// Helper functions.

// setupTestProcessor creates a Processor with a temporary storage.
func setupTestProcessor(t *testing.T) *Processor {
	t.Helper()
	tmpDir := t.TempDir()
	storage, err := NewStorage(tmpDir)
	require.NoError(t, err)

	log := logger.New(logger.Config{Level: slog.LevelDebug})
	return NewProcessor(storage, log.Logger)
}

// makeTestPNG encodes a solid-gradient PNG of the given size.
func makeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeTestPNGFile(t *testing.T, path string, width, height int) {
	t.Helper()
	data := makeTestPNG(t, width, height)
	require.NoError(t, os.WriteFile(path, data, 0644))
}
