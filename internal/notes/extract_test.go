package notes

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_TXT(t *testing.T) {
	text, err := ExtractText("notes.TXT", "", []byte("  line one \r\n\r\n\r\nline two\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "line one\n\nline two", text)

	_, err = ExtractText("empty.txt", "", []byte("   \n  "))
	assert.Error(t, err)
}

func TestExtractText_MimeFallback(t *testing.T) {
	text, err := ExtractText("Pasted Notes", "text/plain", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractText_DOCX(t *testing.T) {
	doc := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>Cells &amp; tissues</w:t></w:r></w:p><w:p><w:r><w:t>Organs</w:t><w:br/><w:t>Systems</w:t></w:r></w:p></w:body></w:document>`)

	text, err := ExtractText("bio.docx", "", doc)
	require.NoError(t, err)
	assert.Equal(t, "Cells & tissues\nOrgans\nSystems", text)
	assert.Equal(t, 5, WordCount(text))
}

func TestExtractText_DOCXKeepsOnlyRunText(t *testing.T) {
	doc := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">Mitosis </w:t></w:r><w:r><w:tab/><w:t>phases</w:t></w:r></w:p><w:p/><w:p/><w:p><w:r><w:t>Prophase</w:t></w:r></w:p></w:body></w:document>`)

	text, err := ExtractText("bio.docx", "", doc)
	require.NoError(t, err)
	assert.Equal(t, "Mitosis \tphases\n\nProphase", text)
	assert.Equal(t, 3, WordCount(text))
}

func TestExtractText_DOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText("bio.docx", "", buf.Bytes())
	assert.Error(t, err)
}

func TestExtractText_InvalidPDF(t *testing.T) {
	_, err := ExtractText("broken.pdf", "application/pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText("photo.jpg", "image/jpeg", []byte{0xff, 0xd8})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"  spaced\tout\nwords  ", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WordCount(tt.text), tt.text)
	}
}
