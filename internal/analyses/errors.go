package analyses

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrPDFConvert = errors.New("pdf conversion failed")
	ErrOCR        = errors.New("ocr failed")
)
