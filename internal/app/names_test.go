package app

import (
	"path/filepath"
	"testing"
)

func TestSplitExt(t *testing.T) {
	cases := []struct {
		name, base, ext string
	}{
		{"a.txt", "a", ".txt"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{".env", ".env", ""},
		{".config.yaml", ".config", ".yaml"},
		{"Makefile", "Makefile", ""},
		{"trailing.", "trailing", "."},
	}
	for _, tc := range cases {
		base, ext := splitExt(tc.name)
		if base != tc.base || ext != tc.ext {
			t.Errorf("splitExt(%q) = %q, %q; want %q, %q", tc.name, base, ext, tc.base, tc.ext)
		}
	}
}

func TestNameResolverAppendsCounter(t *testing.T) {
	mock := newMockFS()
	mock.copied["/dst/a.txt"] = ""
	mock.copied["/dst/a_1.txt"] = ""
	resolver := &NameResolver{FS: mock, Dir: "/dst"}

	got, err := resolver.Resolve("a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join("/dst", "a_2.txt") {
		t.Fatalf("expected a_2.txt, got %s", got)
	}

	got, err = resolver.Resolve(".env")
	if err != nil || got != filepath.Join("/dst", ".env") {
		t.Fatalf("expected free .env, got %s (%v)", got, err)
	}
}

func TestNameResolverReservationsAndIgnoreExisting(t *testing.T) {
	mock := newMockFS()
	mock.copied["/dst/a.txt"] = ""
	resolver := &NameResolver{FS: mock, Dir: "/dst", IgnoreExisting: true}

	first, _ := resolver.Resolve("a.txt")
	if first != "/dst/a.txt" {
		t.Fatalf("expected existing file to be ignored, got %s", first)
	}
	resolver.Reserve(first)

	second, _ := resolver.Resolve("a.txt")
	if second != "/dst/a_1.txt" {
		t.Fatalf("expected reservation to count, got %s", second)
	}
}
