package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/nfnt/resize"

	"github.com/plateful/backend/config"
)

// maxImageWidth bounds photos sent to the vision model; anything wider is
// downscaled before encoding.
const maxImageWidth = 800

// MediaService uploads recipe images to S3 and prepares uploaded photos for
// the extraction prompt.
type MediaService struct {
	s3 *config.S3Config
}

// NewMediaService creates a new MediaService instance.
func NewMediaService(s3 *config.S3Config) *MediaService {
	return &MediaService{s3: s3}
}

// ImageKey derives a stable object key from the image bytes, so re-uploading
// the same image lands on the same key and URL.
func ImageKey(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("recipe-images/%s.jpg", hex.EncodeToString(hash[:]))
}

// Upload stores the image bytes under the given key and returns the durable
// public URL.
func (s *MediaService) Upload(ctx context.Context, data []byte, key string) (string, error) {
	url, err := s.s3.PutObject(ctx, data, key, "image/jpeg")
	if err != nil {
		return "", storeErr("upload_image", err)
	}
	log.Printf("[MediaService] uploaded image to %s", url)
	return url, nil
}

// PrepareImage decodes an uploaded photo, downscales it to at most
// maxImageWidth and returns JPEG bytes plus their base64 encoding for the
// extraction prompt. The decoded buffer is scoped to this call.
func PrepareImage(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: unreadable image: %v", ErrInvalidRequest, err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	encoded := buf.Bytes()
	return encoded, base64.StdEncoding.EncodeToString(encoded), nil
}
