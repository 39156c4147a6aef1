package notes

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported file type for text extraction")

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ExtractText pulls plain text out of an uploaded file. The format is taken
// from the file extension, falling back to the mime type.
func ExtractText(name, mimeType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		switch mimeType {
		case "text/plain":
			ext = ".txt"
		case "application/pdf":
			ext = ".pdf"
		case docxMimeType:
			ext = ".docx"
		}
	}

	switch ext {
	case ".txt":
		return extractTXT(data)
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func extractTXT(data []byte) (string, error) {
	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", fmt.Errorf("text file is empty")
	}

	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	text := normalizeExtractedText(strings.Join(pageTexts(reader), "\n"))
	if text == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return text, nil
}

// pageTexts returns the text of every page that yields any; pages that fail
// to decode only lower the word count.
func pageTexts(r *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil && strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		raw, err := documentText(rc)
		if err != nil {
			return "", fmt.Errorf("read docx body: %w", err)
		}
		text := normalizeExtractedText(raw)
		if text == "" {
			return "", fmt.Errorf("no extractable text found in docx")
		}
		return text, nil
	}

	return "", fmt.Errorf("docx document.xml not found")
}

// documentText walks WordprocessingML and keeps only run text, turning
// paragraph ends and breaks into newlines.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br", "cr":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeExtractedText trims every line and keeps at most one blank line
// between paragraphs.
func normalizeExtractedText(s string) string {
	var lines []string
	for _, line := range strings.Split(lineBreaks.Replace(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" && (len(lines) == 0 || lines[len(lines)-1] == "") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
