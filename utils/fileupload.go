package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxDocumentSize is 10MB in bytes
	MaxDocumentSize = 10 * 1024 * 1024
)

// AllowedDocumentFormats are the file extensions accepted as order documents
var AllowedDocumentFormats = []string{".pdf", ".png", ".jpg", ".jpeg"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateDocumentFile validates the uploaded document's format and size
func ValidateDocumentFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxDocumentSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxDocumentSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedDocumentFormats {
		if ext == allowed {
			return nil
		}
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedDocumentFormats, ", ")),
	}
}

// SanitizeFilename rejects names that could escape the storage prefix
func SanitizeFilename(filename string) error {
	if filename == "" {
		return &FileUploadError{Code: "INVALID_FILENAME", Message: "Filename is required"}
	}
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return &FileUploadError{Code: "INVALID_FILENAME", Message: "Invalid filename"}
	}
	return nil
}
