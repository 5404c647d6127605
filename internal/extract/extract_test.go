package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func Test_ForFilename(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		want    any
		wantErr bool
	}{
		{"paper.pdf", &PDFExtractor{}, false},
		{"Paper.PDF", &PDFExtractor{}, false},
		{"notes.txt", &PlainTextExtractor{}, false},
		{"readme.md", &PlainTextExtractor{}, false},
		{"image.png", nil, true},
		{"noext", nil, true},
	}
	for _, tc := range cases {
		got, err := ForFilename(tc.name)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("ForFilename(%q): want ErrUnsupportedType, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForFilename(%q): %v", tc.name, err)
			continue
		}
		switch tc.want.(type) {
		case *PDFExtractor:
			if _, ok := got.(*PDFExtractor); !ok {
				t.Errorf("ForFilename(%q) = %T, want *PDFExtractor", tc.name, got)
			}
		case *PlainTextExtractor:
			if _, ok := got.(*PlainTextExtractor); !ok {
				t.Errorf("ForFilename(%q) = %T, want *PlainTextExtractor", tc.name, got)
			}
		}
	}
}

func Test_PlainTextExtractor(t *testing.T) {
	t.Parallel()
	e := &PlainTextExtractor{}

	res, err := e.Extract(context.Background(), strings.NewReader("  some document text \n"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "some document text" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Pages != 0 {
		t.Errorf("Pages = %d, want 0 for plain text", res.Pages)
	}
}

func Test_PlainTextExtractor_Empty(t *testing.T) {
	t.Parallel()
	e := &PlainTextExtractor{}

	cases := []string{"", "   \n\t  "}
	for _, input := range cases {
		_, err := e.Extract(context.Background(), strings.NewReader(input))
		if !errors.Is(err, ErrNoText) {
			t.Errorf("Extract(%q): want ErrNoText, got %v", input, err)
		}
	}
}
