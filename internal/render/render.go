package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Public filenames delivered to the user. Internal session keys never
// appear in user-facing names.
const (
	TextFileName        = "extracted_text.txt"
	DocxFileName        = "extracted_text.docx"
	SummaryTextFileName = "document_summary.txt"
	SummaryDocxFileName = "document_summary.docx"
)

// Chunk splits text into consecutive slices of at most size characters,
// preserving order. Concatenating the chunks reproduces the input exactly.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}

	// Slice on runes so a multi-byte character is never cut in half
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}

	return chunks
}

// WriteTXT materializes text as a plain-text file under dir
func WriteTXT(dir, name, text string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing txt file: %w", err)
	}
	return path, nil
}

// WriteDOCX materializes text as a minimal Word document under dir: an
// OOXML package with a single paragraph holding the full text, line
// breaks preserved.
func WriteDOCX(dir, name, text string) (string, error) {
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating docx file: %w", err)
	}

	zw := zip.NewWriter(file)

	parts := map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         relsXML,
		"word/document.xml":   documentXML(text),
	}

	for _, partName := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		w, err := zw.Create(partName)
		if err != nil {
			zw.Close()
			file.Close()
			return "", fmt.Errorf("creating docx part %s: %w", partName, err)
		}
		if _, err := w.Write([]byte(parts[partName])); err != nil {
			zw.Close()
			file.Close()
			return "", fmt.Errorf("writing docx part %s: %w", partName, err)
		}
	}

	if err := zw.Close(); err != nil {
		file.Close()
		return "", fmt.Errorf("closing docx archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing docx file: %w", err)
	}

	return path, nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// documentXML builds word/document.xml with one paragraph. Newlines in
// the text become explicit run breaks so the document reads like the
// original.
func documentXML(text string) string {
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	body.WriteString(`<w:body><w:p>`)

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			body.WriteString(`<w:r><w:br/></w:r>`)
		}
		body.WriteString(`<w:r><w:t xml:space="preserve">`)
		body.WriteString(escapeXML(line))
		body.WriteString(`</w:t></w:r>`)
	}

	body.WriteString(`</w:p></w:body></w:document>`)
	return body.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
