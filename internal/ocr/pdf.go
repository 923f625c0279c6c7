package ocr

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount opens the PDF at path and returns its page count. It doubles as
// a structural check before spending cycles on rasterization: a corrupt or
// non-PDF payload fails here with a parse error.
func PageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}
