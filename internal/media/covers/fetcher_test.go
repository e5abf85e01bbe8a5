package covers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Run("returns the served bytes", func(t *testing.T) {
		payload := []byte("not-really-an-image-but-bytes-are-bytes")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(payload)
		}))
		defer srv.Close()

		data, err := NewFetcher().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(payload, data))
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		_, err := NewFetcher().Fetch(context.Background(), "file:///etc/passwd")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("rejects non-200 responses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewFetcher().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("rejects empty bodies", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		defer srv.Close()

		_, err := NewFetcher().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("rejects bodies over the size cap", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(make([]byte, maxFetchSize+1))
		}))
		defer srv.Close()

		_, err := NewFetcher().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})
}

func TestSource(t *testing.T) {
	assert.Equal(t, "steam", Source("https://cdn.cloudflare.steamstatic.com/steam/apps/1145360/header.jpg"))
	assert.Equal(t, "igdb", Source("https://images.igdb.com/igdb/image/upload/co1rba.jpg"))
	assert.Equal(t, "direct", Source("https://example.com/cover.png"))
}
