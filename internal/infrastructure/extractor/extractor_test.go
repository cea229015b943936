package extractor

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/avelichko/faq-assistant/internal/core/domain"
)

type storageFake struct {
	contents map[string][]byte
}

func (f *storageFake) Save(context.Context, string, io.Reader) error {
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.contents[key])), nil
}

func extractDoc(t *testing.T, filename string, raw []byte) ([]domain.Section, error) {
	t.Helper()
	storage := &storageFake{contents: map[string][]byte{"docs/" + filename: raw}}
	e := New(storage)
	return e.Extract(context.Background(), &domain.Document{
		Filename:    filename,
		StoragePath: "docs/" + filename,
	})
}

func TestExtractMarkdown(t *testing.T) {
	sections, err := extractDoc(t, "faq.md", []byte("  # FAQ\n\nAnswer text.  "))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Text != "# FAQ\n\nAnswer text." {
		t.Fatalf("text = %q", sections[0].Text)
	}
	if sections[0].Page != nil || sections[0].Source != "" {
		t.Fatalf("markdown section must be unpaged with default source: %+v", sections[0])
	}
}

func TestExtractMarkdownEmptyFile(t *testing.T) {
	sections, err := extractDoc(t, "empty.md", []byte("   \n  "))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %v", sections)
	}
}

func TestExtractRejectsBinaryPlaintext(t *testing.T) {
	_, err := extractDoc(t, "blob.txt", []byte{0xff, 0xfe, 0x00, 0x01})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	_, err := extractDoc(t, "archive.zip", []byte("PK"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractJSONFAQWrapperSchema(t *testing.T) {
	raw := []byte(`{"faqs":[
		{"question":"How many vacation days?","answer":"25 per year.","source":"hr-policy"},
		{"question":"","answer":"orphan"},
		{"q":"Remote work?","a":"Up to 3 days a week."}
	]}`)
	sections, err := extractDoc(t, "faq.json", raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Text != "Q: How many vacation days?\nA: 25 per year." {
		t.Fatalf("text = %q", sections[0].Text)
	}
	if sections[0].Source != "hr-policy" {
		t.Fatalf("source = %q", sections[0].Source)
	}
	if sections[1].Source != "" {
		t.Fatalf("expected default source for short-key item, got %q", sections[1].Source)
	}
}

func TestExtractJSONFAQBareList(t *testing.T) {
	raw := []byte(`[{"q":"Expense cap?","a":"50 EUR per day."}]`)
	sections, err := extractDoc(t, "faq.json", raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(sections) != 1 || !strings.HasPrefix(sections[0].Text, "Q: Expense cap?") {
		t.Fatalf("sections = %+v", sections)
	}
}

func TestExtractJSONFAQRejectsUnknownSchema(t *testing.T) {
	_, err := extractDoc(t, "faq.json", []byte(`{"entries": []}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractXLSXQuestionAnswerColumns(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	rows := [][]string{
		{"Question", "Answer"},
		{"How do I reset my password?", "Use the self-service portal."},
		{"", "orphan answer"},
		{"Who approves travel?", "Your line manager."},
	}
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	sections, extractErr := extractDoc(t, "faq.xlsx", buf.Bytes())
	if extractErr != nil {
		t.Fatalf("Extract() error = %v", extractErr)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Text != "Q: How do I reset my password?\nA: Use the self-service portal." {
		t.Fatalf("text = %q", sections[0].Text)
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := extractDoc(t, "broken.pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}
