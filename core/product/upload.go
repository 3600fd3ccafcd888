package product

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hdtran/marketplace/config"
	"github.com/hdtran/marketplace/validate"
	"github.com/jmoiron/sqlx"
)

const maxUploadBytes = 10 << 20

// storeImages writes every uploaded "images" file to the uploads dir
// under a fresh name and records a row per file. When the form carries
// no files the configured placeholder path is recorded instead, so
// every product renders with at least one image.
func storeImages(ctx context.Context, db sqlx.ExtContext, r *http.Request, uploads config.Uploads, productID string) ([]Image, error) {
	var images []Image

	files := r.MultipartForm.File["images"]
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening image file %q: %w", fh.Filename, err)
		}

		path, err := saveFile(src, fh.Filename, uploads.Dir)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("saving image file %q: %w", fh.Filename, err)
		}

		img := Image{
			ID:        validate.GenerateID(),
			ProductID: productID,
			ImagePath: path,
			CreatedAt: time.Now().UTC(),
		}
		if err := CreateImage(ctx, db, img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		img := Image{
			ID:        validate.GenerateID(),
			ProductID: productID,
			ImagePath: uploads.Placeholder,
			CreatedAt: time.Now().UTC(),
		}
		if err := CreateImage(ctx, db, img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, nil
}

func saveFile(src io.Reader, name string, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating uploads dir: %w", err)
	}

	// Client file names are untrusted; only the extension survives.
	fileName := validate.GenerateID() + filepath.Ext(name)
	path := filepath.Join(dir, fileName)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}

	return "/" + filepath.ToSlash(path), nil
}
