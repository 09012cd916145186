package document

import (
	domain "loan-backoffice/internal/domain/document"
)

// RegisterInput carries metadata for a file that already lives at URL.
type RegisterInput struct {
	MimeType string          `json:"mimeType"`
	URL      string          `json:"url"`
	Category domain.Category `json:"category"`
}
