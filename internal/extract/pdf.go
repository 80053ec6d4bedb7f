package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// ValidatePDF checks that an uploaded payload is a readable PDF with at
// least one page, before it is shipped to the analysis service. The
// reader panics on some malformed files, so parsing is fenced.
// Library used: github.com/ledongthuc/pdf.
func ValidatePDF(data []byte) (err error) {
	if len(data) == 0 {
		return errors.New("empty file")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return errors.New("not a PDF file")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("malformed PDF: %w", err)
	}
	if reader.NumPage() < 1 {
		return errors.New("PDF has no pages")
	}
	return nil
}
