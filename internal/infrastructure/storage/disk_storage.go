// Package storage guarda en disco los archivos subidos (logos, licencias) y los
// expone bajo una URL pública servida por el propio API.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

var _ ports.FileStorage = (*DiskStorage)(nil)

// DiskStorage implementa ports.FileStorage sobre el sistema de archivos local.
type DiskStorage struct {
	baseDir   string
	publicURL string
	log       *logger.Logger
}

// NewDiskStorage crea baseDir si no existe. publicURL es el prefijo de las URIs devueltas.
func NewDiskStorage(baseDir, publicURL string, log *logger.Logger) (*DiskStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio base: %w", err)
	}
	return &DiskStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log.Component("storage"),
	}, nil
}

// BaseDir directorio raíz (para servirlo como estático).
func (s *DiskStorage) BaseDir() string { return s.baseDir }

// Save escribe el archivo con nombre aleatorio conservando la extensión.
func (s *DiskStorage) Save(ctx context.Context, folder string, file ports.Upload) (string, error) {
	if folder == "" || strings.ContainsAny(folder, `/\.`) {
		return "", fmt.Errorf("storage: carpeta inválida %q", folder)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: crear carpeta: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	full := filepath.Join(dir, name)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	if _, err := io.Copy(f, file.Content); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: cerrar archivo: %w", err)
	}

	s.log.Debug().Str("folder", folder).Str("file", name).Int64("size", file.Size).Msg("archivo guardado")
	return s.publicURL + "/" + folder + "/" + name, nil
}

// Delete borra el archivo de una URI devuelta por Save. Un archivo inexistente no es error.
func (s *DiskStorage) Delete(_ context.Context, uri string) error {
	rel, ok := strings.CutPrefix(uri, s.publicURL+"/")
	if !ok {
		return fmt.Errorf("storage: URI ajena al almacenamiento: %q", uri)
	}
	if strings.Contains(rel, "..") || strings.Count(rel, "/") != 1 {
		return fmt.Errorf("storage: URI inválida: %q", uri)
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: borrar archivo: %w", err)
	}
	return nil
}
