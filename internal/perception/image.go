package perception

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrImageNotFound means the input path does not exist.
	ErrImageNotFound = errors.New("image file not found")
	// ErrUnsupportedImage means the input is not a PNG, JPEG or GIF image.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// supportedExtensions maps accepted file extensions to MIME types.
var supportedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// Image is an image file loaded for a model call.
type Image struct {
	Path     string
	MIMEType string
	Data     []byte
}

// Size returns the image size in bytes.
func (img *Image) Size() int {
	return len(img.Data)
}

// IsSupportedImage reports whether path has an accepted image extension.
func IsSupportedImage(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadImage reads an image file. The MIME type comes from the file content
// when it can be sniffed, else from the extension.
func LoadImage(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedImage, path)
	}

	extMIME, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s (accepted: .png, .jpg, .jpeg, .gif)", ErrUnsupportedImage, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnsupportedImage, path)
	}

	mimeType := extMIME
	sniffed := http.DetectContentType(data)
	switch sniffed {
	case "image/png", "image/jpeg", "image/gif":
		mimeType = sniffed
	default:
		if !strings.HasPrefix(sniffed, "application/octet-stream") {
			return nil, fmt.Errorf("%w: %s looks like %s", ErrUnsupportedImage, path, sniffed)
		}
	}

	return &Image{Path: path, MIMEType: mimeType, Data: data}, nil
}
