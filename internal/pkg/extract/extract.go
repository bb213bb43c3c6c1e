package extract

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"docutrack/internal/model"
)

// Text extracts the text payload for an uploaded file. PDFs go through the
// pdf reader; everything else is treated as opaque text. Binary doc/docx
// content is not parsed.
func Text(docType model.DocumentType, data []byte) (string, error) {
	if docType == model.TypePDF {
		text, err := pdfText(data)
		if err == nil && text != "" {
			return text, nil
		}
		// fall through to the raw payload when the PDF has no text layer
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return string(bytes.ToValidUTF8(data, []byte("�"))), nil
}

func pdfText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
