// Package extract turns uploaded PDF documents into the raw inputs of a
// student profile: subject marks and certificate-derived interest labels.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// Text extracts the plain text of every page in the PDF at path,
// concatenated in page order.
func Text(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return "", fmt.Errorf("reading extracted text from %s: %w", path, err)
	}
	return buf.String(), nil
}

// FromUpload copies an uploaded document to a temporary file, extracts its
// text, and removes the file unconditionally — including when extraction
// fails — so uploads never leak temporary storage.
func FromUpload(r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "advisor-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	return Text(path)
}
