package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExportSVGProducesValidDocument(t *testing.T) {
	l := testLayout(t)
	data, err := ExportSVG(l, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected output to contain an <svg> element")
	}
	if !bytes.Contains(data, []byte("</svg>")) {
		t.Error("expected output to be a closed SVG document")
	}
}

func TestExportSVGRejectsNilLayout(t *testing.T) {
	if _, err := ExportSVG(nil, DefaultSVGOptions()); err == nil {
		t.Error("expected an error for a nil layout")
	}
}

func TestExportSVGAppliesDefaultsForZeroOptions(t *testing.T) {
	l := testLayout(t)
	data, err := ExportSVG(l, SVGOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty SVG output with zero-value options")
	}
}

func TestSaveSVGToFileWritesFile(t *testing.T) {
	l := testLayout(t)
	path := filepath.Join(t.TempDir(), "layout.svg")
	if err := SaveSVGToFile(l, path, DefaultSVGOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading back file: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected saved file to contain an <svg> element")
	}
}
