package cli

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/diaconv/pkg/dia"
)

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(testDiagram))
	zw.Close()

	files := map[string][]byte{
		"plain.dia": []byte(testDiagram),
		"zip.dia":   gz.Bytes(),
		"hub.shape": []byte(`<?xml version="1.0"?><shape xmlns="http://www.daa.com.au/~james/dia-shape-ns"><name>Hub</name></shape>`),
		"notes.txt": []byte("hello"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		want     dia.Format
		wantGzip bool
	}{
		{"plain.dia", dia.Diagram, false},
		{"zip.dia", dia.Diagram, true},
		{"hub.shape", dia.Shape, false},
		{"notes.txt", dia.Unknown, false},
	}
	for _, tt := range tests {
		got, gzipped, err := detectFile(filepath.Join(dir, tt.name))
		if err != nil {
			t.Fatalf("detectFile(%s) error = %v", tt.name, err)
		}
		if got != tt.want || gzipped != tt.wantGzip {
			t.Errorf("detectFile(%s) = %v, %v, want %v, %v", tt.name, got, gzipped, tt.want, tt.wantGzip)
		}
	}

	if _, _, err := detectFile(filepath.Join(dir, "missing.dia")); err == nil {
		t.Error("detectFile(missing) error = nil, want error")
	}
}
