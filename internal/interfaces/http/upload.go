package http

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/validation"
)

// formUpload lee el archivo field del formulario multipart. Sin archivo devuelve nil, nil.
// Se leen como mucho MaxUploadSize+1 bytes: el caso de uso rechaza el exceso por Size.
func formUpload(c *fiber.Ctx, field string) (*ports.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, validation.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", field, err)
	}
	return &ports.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Content:     bytes.NewReader(data),
	}, nil
}
