package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/infrastructure/storage"
	"github.com/jhoicas/jobboard-api/internal/testutil"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

func TestDiskStorage_SaveYDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewDiskStorage(dir, "/uploads/", logger.Nop())
	require.NoError(t, err)

	uri, err := s.Save(context.Background(), "logos", *testutil.Upload("Logo.PNG", "image/png", []byte("png")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "/uploads/logos/"))
	assert.True(t, strings.HasSuffix(uri, ".png"))

	name := strings.TrimPrefix(uri, "/uploads/logos/")
	data, err := os.ReadFile(filepath.Join(dir, "logos", name))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(context.Background(), uri))
	_, err = os.Stat(filepath.Join(dir, "logos", name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(context.Background(), uri), "borrar dos veces no es error")
}

func TestDiskStorage_RechazaRutasFuera(t *testing.T) {
	s, err := storage.NewDiskStorage(t.TempDir(), "/uploads", logger.Nop())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../etc", *testutil.Upload("x.pdf", "application/pdf", []byte("x")))
	assert.Error(t, err)

	assert.Error(t, s.Delete(context.Background(), "https://otro.host/x.png"))
	assert.Error(t, s.Delete(context.Background(), "/uploads/../../etc/passwd"))
}
