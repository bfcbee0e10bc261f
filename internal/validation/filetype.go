package validation

import (
	"errors"
)

var allowedImageTypes = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ValidateImageFileType checks the file extension requested for an avatar
// upload. The extension is used to build the S3 key and content type.
func ValidateImageFileType(fileType string) error {
	if fileType == "" {
		return errors.New("fileType is required")
	}
	if !allowedImageTypes[fileType] {
		return errors.New("unsupported image type")
	}
	return nil
}
