package extract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

type pdfExtractor struct{}

func init() {
	Register("pdf", pdfExtractor{})
}

func (pdfExtractor) Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
