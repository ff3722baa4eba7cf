package handlers

import (
	"mime/multipart"
	"strings"
	"testing"
)

func TestSaveImageRejectsMissingExtension(t *testing.T) {
	_, err := saveImage(&multipart.FileHeader{Filename: "cover", Size: 100})
	if err == nil {
		t.Fatal("expected error for filename without extension")
	}
}

func TestSaveImageRejectsUnsupportedType(t *testing.T) {
	for _, name := range []string{"cover.gif", "cover.svg", "cover.exe", "cover.pdf"} {
		_, err := saveImage(&multipart.FileHeader{Filename: name, Size: 100})
		if err == nil {
			t.Fatalf("expected error for %s", name)
		}
		if !strings.Contains(err.Error(), "unsupported image type") {
			t.Fatalf("unexpected error for %s: %v", name, err)
		}
	}
}

func TestSaveImageRejectsOversizedFile(t *testing.T) {
	_, err := saveImage(&multipart.FileHeader{Filename: "cover.png", Size: maxImageSize + 1})
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSafeDeleteUploadRefusesOutsidePaths(t *testing.T) {
	cases := []string{
		"../etc/passwd",
		"uploads/../../etc/passwd",
		"products/cover.png",
		"/etc/passwd",
	}
	for _, relPath := range cases {
		if err := safeDeleteUpload(relPath); err == nil {
			t.Fatalf("expected refusal for %q", relPath)
		}
	}
}

func TestSafeDeleteUploadIgnoresEmptyAndMissing(t *testing.T) {
	if err := safeDeleteUpload(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}
	if err := safeDeleteUpload("uploads/products/does-not-exist.png"); err != nil {
		t.Fatalf("missing file should be a no-op, got %v", err)
	}
}
