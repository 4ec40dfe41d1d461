package textsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
)

// minTextLength guards against files whose extraction produced nothing
// usable; shorter output is treated as an extraction failure, not as an
// empty-entities report.
const minTextLength = 10

// FileSource implements domain.TextSource over files that already
// contain extracted text. OCR over scanned documents is an external
// collaborator; its output lands here as plain text.
type FileSource struct {
	logger *logrus.Logger
}

// NewFileSource creates a new file-backed text source
func NewFileSource(logger *logrus.Logger) *FileSource {
	return &FileSource{logger: logger}
}

// ExtractText reads the report text for a file path. A missing file,
// an unsupported type and unreadable content each surface as distinct
// coded errors so the caller can map them to user-visible failures.
func (s *FileSource) ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".text":
	default:
		return "", domain.NewAppError(domain.ErrUnsupported,
			fmt.Sprintf("unsupported input type: %s", ext),
			"only extracted plain-text reports are accepted; run scanned documents through OCR first", "")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.NewAppError(domain.ErrNotFound,
				fmt.Sprintf("report file not found: %s", path), err.Error(), "")
		}
		return "", domain.NewAppError(domain.ErrInvalidInput,
			fmt.Sprintf("could not read report file: %s", path), err.Error(), "")
	}

	text := string(data)
	if len(strings.TrimSpace(text)) < minTextLength {
		return "", domain.NewAppError(domain.ErrExtraction,
			"could not extract any text from this file",
			"file content is empty or too short to analyze", "")
	}

	s.logger.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("Report text extracted")

	return text, nil
}
