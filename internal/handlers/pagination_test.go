package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, pageSize, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 1 || pageSize != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", page, pageSize)
	}
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	page, pageSize, err := parsePaginationParams("3", "25")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 3 || pageSize != 25 {
		t.Fatalf("expected 3/25, got %d/%d", page, pageSize)
	}
}

func TestParsePaginationParamsRejectsInvalid(t *testing.T) {
	cases := [][2]string{
		{"0", "10"},
		{"-1", "10"},
		{"abc", "10"},
		{"1", "0"},
		{"1", "-5"},
		{"1", "ten"},
	}
	for _, c := range cases {
		if _, _, err := parsePaginationParams(c[0], c[1]); err == nil {
			t.Fatalf("expected error for page=%q pageSize=%q", c[0], c[1])
		}
	}
}
