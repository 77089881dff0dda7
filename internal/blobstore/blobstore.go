// Package blobstore is the local implementation of the "store blob, get URL"
// collaborator used for avatars.
package blobstore

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const thumbMaxDim = 128

// LocalStore writes images under a directory served statically by the
// gateway and returns their public URLs.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// StoreImage persists the image and a thumbnail, returning both URLs. The
// thumbnail is best-effort: an image that decodes but cannot be scaled still
// stores fine with an empty thumbnail URL.
func (s *LocalStore) StoreImage(data []byte, contentType string) (string, string, error) {
	name := uuid.New().String() + extensionFor(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", "", err
	}
	url := s.baseURL + "/" + name

	thumbURL := ""
	if thumb, err := makeThumbnail(data); err == nil {
		thumbName := strings.TrimSuffix(name, filepath.Ext(name)) + "_thumb.jpg"
		if err := os.WriteFile(filepath.Join(s.dir, thumbName), thumb, 0o644); err == nil {
			thumbURL = s.baseURL + "/" + thumbName
		}
	}
	return url, thumbURL, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ".img"
	}
}

// makeThumbnail scales the image down so its longest side is thumbMaxDim,
// using nearest-neighbor sampling, and encodes it as JPEG.
func makeThumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image")
	}
	scale := 1.0
	if w >= h && w > thumbMaxDim {
		scale = float64(thumbMaxDim) / float64(w)
	} else if h > w && h > thumbMaxDim {
		scale = float64(thumbMaxDim) / float64(h)
	}
	tw, th := int(float64(w)*scale), int(float64(h)*scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			sx := bounds.Min.X + x*w/tw
			sy := bounds.Min.Y + y*h/th
			dst.Set(x, y, src.At(sx, sy))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
