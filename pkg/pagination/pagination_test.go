package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	norm := Normalize(Params{})
	if norm.Page != 1 {
		t.Fatalf("expected page 1, got %d", norm.Page)
	}
	if norm.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", norm.PageSize)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	norm := Normalize(Params{Page: 2, PageSize: 5000})
	if norm.PageSize != MaxPageSize {
		t.Fatalf("expected capped page size %d, got %d", MaxPageSize, norm.PageSize)
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}
	if p.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", p.Offset())
	}
	if p.Limit() != 10 {
		t.Fatalf("expected limit 10, got %d", p.Limit())
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PageSize: 10}, 25)
	if meta.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.Pages)
	}
	if meta.Total != 25 {
		t.Fatalf("expected total 25, got %d", meta.Total)
	}
}

func TestNewMetaEmpty(t *testing.T) {
	meta := NewMeta(Params{}, 0)
	if meta.Pages != 1 {
		t.Fatalf("expected 1 page for empty result, got %d", meta.Pages)
	}
}
