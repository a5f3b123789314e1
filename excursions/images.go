package excursions

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"tourdesk/models"
	"tourdesk/utils"

	"github.com/disintegration/imaging"
)

// MaxUploadBytes caps one multipart image request.
const MaxUploadBytes = 10 << 20

const thumbWidth = 400

// ImageStore writes uploaded excursion photos under dir and names them by
// their public URL under base.
type ImageStore struct {
	dir  string
	base string
}

func NewImageStore(dir, base string) *ImageStore {
	return &ImageStore{dir: filepath.Join(dir, "excursions"), base: strings.TrimRight(base, "/") + "/excursions/"}
}

// Save decodes one upload, stores it with a thumbnail and returns its public
// path.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	if ct := file.Header.Get("Content-Type"); ct != "" && !utils.SupportedImageTypes[ct] {
		return "", utils.Validation("unsupported image type %s", ct)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", utils.Validation("%s is not a readable image", file.Filename)
	}

	name := utils.GetUUID() + ".jpg"
	thumbDir := filepath.Join(s.dir, "thumb")
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, name)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return s.base + name, nil
}

// Remove deletes the files behind a public path. Paths outside the store are
// ignored.
func (s *ImageStore) Remove(ctx context.Context, publicPath string) {
	if !strings.HasPrefix(publicPath, s.base) {
		return
	}
	name := filepath.Base(publicPath)
	for _, p := range []string{filepath.Join(s.dir, name), filepath.Join(s.dir, "thumb", name)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "remove image file", "path", p, "error", err)
		}
	}
}

// AddImages saves every upload and appends the paths to the card. Files
// already written are removed again if a later step fails.
func (s *Service) AddImages(ctx context.Context, id string, images *ImageStore, files []*multipart.FileHeader) (models.ExcursionCard, error) {
	if len(files) == 0 {
		return models.ExcursionCard{}, utils.Validation("no images uploaded")
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return models.ExcursionCard{}, err
	}

	var saved []string
	cleanup := func() {
		for _, p := range saved {
			images.Remove(ctx, p)
		}
	}
	for _, fh := range files {
		p, err := images.Save(fh)
		if err != nil {
			cleanup()
			return models.ExcursionCard{}, err
		}
		saved = append(saved, p)
	}

	if err := s.store.AddImages(ctx, id, saved); err != nil {
		cleanup()
		return models.ExcursionCard{}, err
	}
	s.InvalidateCatalog(ctx)
	return s.store.Get(ctx, id)
}

func (s *Service) RemoveImage(ctx context.Context, id, path string, images *ImageStore) (models.ExcursionCard, error) {
	if strings.TrimSpace(path) == "" {
		return models.ExcursionCard{}, utils.Validation("path is required")
	}
	if err := s.store.RemoveImage(ctx, id, path); err != nil {
		return models.ExcursionCard{}, err
	}
	images.Remove(ctx, path)
	s.InvalidateCatalog(ctx)
	return s.store.Get(ctx, id)
}
