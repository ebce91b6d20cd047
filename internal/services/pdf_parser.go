package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// PDFParserService extracts plain text from PDF resumes. A readable PDF without any
// text layer yields an empty string and no error.
type PDFParserService interface {
	ExtractText(filePath string) (string, error)
	ExtractTextFromBytes(data []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return readPlainText(r)
}

func (p *pdfParserService) ExtractTextFromBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("failed to open PDF: empty file")
	}

	r, err := openReader(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	return readPlainText(r)
}

// openReader guards against the parser panicking on truncated xref tables.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func readPlainText(r *pdf.Reader) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to read PDF content: %v", rec)
		}
	}()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Int("page", pageIndex).Msg("skipping unreadable PDF page")
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(pageText)
	}

	text = textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
