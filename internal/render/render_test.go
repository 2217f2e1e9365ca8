package render

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		size     int
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			size:     10,
			expected: nil,
		},
		{
			name:     "shorter than chunk size",
			text:     "hello",
			size:     10,
			expected: []string{"hello"},
		},
		{
			name:     "exact chunk size",
			text:     "hello",
			size:     5,
			expected: []string{"hello"},
		},
		{
			name:     "splits at boundary",
			text:     "hello world",
			size:     5,
			expected: []string{"hello", " worl", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.text, tt.size)
			if len(chunks) != len(tt.expected) {
				t.Fatalf("Expected %d chunks, got %d", len(tt.expected), len(chunks))
			}
			for i, chunk := range chunks {
				if chunk != tt.expected[i] {
					t.Errorf("Chunk %d: expected %q, got %q", i, tt.expected[i], chunk)
				}
			}
		})
	}
}

func TestChunkRoundTrip(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 500)

	for _, size := range []int{1, 7, 100, 4096, len(text) + 1} {
		chunks := Chunk(text, size)

		var rebuilt strings.Builder
		for _, chunk := range chunks {
			if len([]rune(chunk)) > size {
				t.Errorf("Chunk exceeds size %d: %d runes", size, len([]rune(chunk)))
			}
			rebuilt.WriteString(chunk)
		}

		if rebuilt.String() != text {
			t.Errorf("Concatenated chunks do not reproduce input for size %d", size)
		}
	}
}

func TestChunkMultiByte(t *testing.T) {
	text := strings.Repeat("日本語のテキスト", 100)
	chunks := Chunk(text, 10)

	var rebuilt strings.Builder
	for _, chunk := range chunks {
		if !strings.Contains(text, chunk) {
			t.Errorf("Chunk split a multi-byte character: %q", chunk)
		}
		rebuilt.WriteString(chunk)
	}

	if rebuilt.String() != text {
		t.Error("Concatenated chunks do not reproduce multi-byte input")
	}
}

func TestWriteTXT(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTXT(dir, "ab12cd34.txt", "Hello world")
	if err != nil {
		t.Fatalf("WriteTXT failed: %v", err)
	}

	if path != filepath.Join(dir, "ab12cd34.txt") {
		t.Errorf("Unexpected path: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(content) != "Hello world" {
		t.Errorf("Expected content 'Hello world', got %q", string(content))
	}
}

func TestWriteTXTBadDir(t *testing.T) {
	_, err := WriteTXT(filepath.Join(t.TempDir(), "does-not-exist"), "out.txt", "text")
	if err == nil {
		t.Error("Expected error writing to missing directory")
	}
}

func TestWriteDOCX(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDOCX(dir, "ab12cd34.docx", "First line\nSecond <line> & more")
	if err != nil {
		t.Fatalf("WriteDOCX failed: %v", err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Written docx is not a valid zip: %v", err)
	}
	defer reader.Close()

	parts := make(map[string]string)
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("Failed to open part %s: %v", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read part %s: %v", file.Name, err)
		}
		parts[file.Name] = string(data)
	}

	for _, required := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if _, ok := parts[required]; !ok {
			t.Errorf("Missing docx part: %s", required)
		}
	}

	doc := parts["word/document.xml"]
	if !strings.Contains(doc, "First line") {
		t.Error("Document part does not contain the first line")
	}
	if !strings.Contains(doc, "Second &lt;line&gt; &amp; more") {
		t.Error("Document part does not escape XML special characters")
	}
	if !strings.Contains(doc, "<w:br/>") {
		t.Error("Document part does not preserve the line break")
	}
}
