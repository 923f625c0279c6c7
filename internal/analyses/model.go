package analyses

import (
	"time"

	"labreport-backend/internal/extract"
)

// Analysis represents one processed document: the stored file, the OCR text,
// the extracted biomarker values and the generated feedback.
type Analysis struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	FileName      string `json:"fileName"`
	StorageKey    string `json:"-"`
	ExtractedText string `json:"text"`

	extract.Values

	AIFeedback *string   `json:"aiFeedback"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Pagination describes one page of a user's history.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
