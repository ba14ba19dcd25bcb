package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"dirkit/internal/domain"
)

// mockFS is an in-memory tree keyed by absolute path. Directories are the
// implicit parents of registered files plus any explicit dirs.
type mockFS struct {
	files      map[string]string
	dirs       map[string]bool
	unreadable map[string]bool
	copyErr    map[string]error
	copied     map[string]string
}

func newMockFS(files ...string) *mockFS {
	m := &mockFS{
		files:      map[string]string{},
		dirs:       map[string]bool{},
		unreadable: map[string]bool{},
		copyErr:    map[string]error{},
		copied:     map[string]string{},
	}
	for _, f := range files {
		m.addFile(f, f)
	}
	return m
}

func (m *mockFS) addFile(path, content string) {
	m.files[path] = content
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
		if dir == filepath.Dir(dir) {
			break
		}
	}
}

func (m *mockFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if m.unreadable[path] {
		return nil, fs.ErrPermission
	}
	if !m.dirs[path] {
		return nil, fs.ErrNotExist
	}
	seen := map[string]bool{}
	var entries []fs.DirEntry
	add := func(child string, isDir bool) {
		if filepath.Dir(child) != path || child == path || seen[child] {
			return
		}
		seen[child] = true
		entries = append(entries, mockDirEntry{name: filepath.Base(child), isDir: isDir})
	}
	for f := range m.files {
		add(f, false)
	}
	for d := range m.dirs {
		add(d, true)
	}
	// Unsorted on purpose; the walker sorts.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() > entries[j].Name() })
	return entries, nil
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	if m.dirs[path] {
		return mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if _, ok := m.files[path]; ok {
		return mockFileInfo{name: filepath.Base(path)}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	_, isFile := m.files[path]
	_, isCopied := m.copied[path]
	return isFile || isCopied || m.dirs[path], nil
}

func (m *mockFS) MkdirAll(path string, perm fs.FileMode) error {
	m.dirs[path] = true
	return nil
}

func (m *mockFS) RemoveAll(path string) error {
	for f := range m.copied {
		if isWithin(f, path) {
			delete(m.copied, f)
		}
	}
	delete(m.dirs, path)
	return nil
}

func (m *mockFS) CopyFile(src, dst string) error {
	if err := m.copyErr[src]; err != nil {
		return err
	}
	m.copied[dst] = m.files[src]
	return nil
}

func (m *mockFS) Create(path string) (io.WriteCloser, error) {
	return nil, errors.New("not supported")
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string { return m.name }
func (m mockDirEntry) IsDir() bool  { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return 0
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name  string
	isDir bool
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return 0 }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }

func itemPaths(plan domain.CopyPlan) []string {
	paths := make([]string, 0, len(plan.Items))
	for _, item := range plan.Items {
		paths = append(paths, item.SourcePath)
	}
	return paths
}

func TestPlannerVisitsParentFilesBeforeChildren(t *testing.T) {
	mock := newMockFS(
		"/src/z.txt",
		"/src/a/one.txt",
		"/src/a/b/two.txt",
		"/src/c/three.txt",
	)
	planner := Planner{FS: mock}

	plan, err := planner.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/src/z.txt", "/src/a/one.txt", "/src/a/b/two.txt", "/src/c/three.txt"}
	got := itemPaths(plan)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
	}
}

func TestPlannerSkipsTargetInsideSource(t *testing.T) {
	mock := newMockFS("/src/a.txt", "/src/copia/a.txt", "/src/copia2/b.txt")
	planner := Planner{FS: mock}

	plan, err := planner.Plan(context.Background(), "/src", "/src/copia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := itemPaths(plan)
	if strings.Join(got, ",") != "/src/a.txt,/src/copia2/b.txt" {
		t.Fatalf("unexpected items %v", got)
	}
	if len(plan.SkippedDirs) != 1 || plan.SkippedDirs[0] != "/src/copia" {
		t.Fatalf("unexpected skipped dirs %v", plan.SkippedDirs)
	}
}

func TestPlannerSubstringExclusionIsCoarse(t *testing.T) {
	mock := newMockFS(
		"/src/keep.js",
		"/src/backend/node_modules/lib/index.js",
		"/src/my-node_modules-backup/notes.txt",
		"/src/backend/server.js",
	)
	planner := Planner{
		FS:      mock,
		Matcher: SubstringMatcher{Fragments: []string{"node_modules"}},
	}

	plan, err := planner.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, path := range itemPaths(plan) {
		if strings.Contains(path, "node_modules") {
			t.Fatalf("excluded path planned: %s", path)
		}
	}
	if len(plan.Items) != 2 {
		t.Fatalf("expected 2 items, got %v", itemPaths(plan))
	}
}

func TestPlannerSubstringExclusionIgnoresFileNames(t *testing.T) {
	mock := newMockFS(
		"/src/docs/frontend-old.txt",
		"/src/frontend-old/app.js",
	)
	planner := Planner{
		FS:      mock,
		Matcher: SubstringMatcher{Fragments: []string{"frontend-old"}},
	}

	plan, err := planner.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := itemPaths(plan)
	if len(got) != 1 || got[0] != "/src/docs/frontend-old.txt" {
		t.Fatalf("expected only the file from the kept folder, got %v", got)
	}
}

func TestPlannerSkipsLockfileOnlyWhenAsked(t *testing.T) {
	mock := newMockFS("/src/package.json", "/src/package-lock.json", "/src/web/package-lock.json")

	additive := Planner{FS: mock}
	plan, err := additive.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Items) != 3 {
		t.Fatalf("expected lockfiles in additive plan, got %v", itemPaths(plan))
	}

	destructive := Planner{FS: mock, SkipLockfile: true}
	plan, err = destructive.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Items) != 1 || plan.Items[0].Name != "package.json" {
		t.Fatalf("expected only package.json, got %v", itemPaths(plan))
	}
	if len(plan.SkippedFiles) != 2 {
		t.Fatalf("expected 2 skipped lockfiles, got %v", plan.SkippedFiles)
	}
}

func TestPlannerSkipsUnreadableSubdirectory(t *testing.T) {
	mock := newMockFS("/src/a.txt", "/src/locked/b.txt")
	mock.unreadable["/src/locked"] = true
	planner := Planner{FS: mock}

	plan, err := planner.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Items) != 1 || len(plan.Warnings) != 1 {
		t.Fatalf("expected 1 item and 1 warning, got %v / %v", itemPaths(plan), plan.Warnings)
	}
}

func TestPlannerFailsOnUnreadableRoot(t *testing.T) {
	mock := newMockFS("/src/a.txt")
	mock.unreadable["/src"] = true
	planner := Planner{FS: mock}

	if _, err := planner.Plan(context.Background(), "/src", "/dst"); !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestPlannerPatternModeMatchesSegments(t *testing.T) {
	mock := newMockFS(
		"/src/node_modules/x.js",
		"/src/my-node_modules-backup/notes.txt",
		"/src/debug.log",
	)
	planner := Planner{FS: mock, Matcher: NewPatternMatcher([]string{"node_modules/", "*.log"})}

	plan, err := planner.Plan(context.Background(), "/src", "/dst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := itemPaths(plan)
	if len(got) != 1 || got[0] != "/src/my-node_modules-backup/notes.txt" {
		t.Fatalf("unexpected items %v", got)
	}
}
