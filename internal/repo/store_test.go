package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type fetcherFunc func(ctx context.Context, owner, name string) (string, error)

func (f fetcherFunc) Readme(ctx context.Context, owner, name string) (string, error) {
	return f(ctx, owner, name)
}

func testRepos() []Repository {
	return []Repository{
		{Owner: "a", Name: "alpha", URL: "https://github.com/a/alpha"},
		{Owner: "b", Name: "beta", URL: "https://github.com/b/beta"},
	}
}

func TestStore_SaveFetchesReadmeAndWrites(t *testing.T) {
	dir := t.TempDir()
	var fetches atomic.Int32
	fetcher := fetcherFunc(func(_ context.Context, owner, name string) (string, error) {
		fetches.Add(1)
		return "readme of " + owner + "/" + name, nil
	})

	s := NewStore(dir, fetcher)
	if err := s.Save(context.Background(), testRepos(), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := fetches.Load(); got != 2 {
		t.Errorf("readme fetches = %d, want 2", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, "alpha.md"))
	if err != nil {
		t.Fatalf("reading alpha.md: %v", err)
	}
	if !strings.Contains(string(data), "readme of a/alpha") {
		t.Error("alpha.md missing fetched readme content")
	}
}

func TestStore_SaveSkipsExistingUnlessResave(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, fetcherFunc(func(_ context.Context, owner, name string) (string, error) {
		return "v1", nil
	}))
	if err := s.Save(context.Background(), testRepos(), false); err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	// Re-run with resave=false: zero writes.
	marker := []byte("marker")
	for _, name := range []string{"alpha.md", "beta.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), marker, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save(context.Background(), testRepos(), false); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	for _, name := range []string{"alpha.md", "beta.md"} {
		data, _ := os.ReadFile(filepath.Join(dir, name))
		if string(data) != "marker" {
			t.Errorf("%s was rewritten with resave=false", name)
		}
	}

	// resave=true rewrites every file.
	if err := s.Save(context.Background(), testRepos(), true); err != nil {
		t.Fatalf("resave Save: %v", err)
	}
	for _, name := range []string{"alpha.md", "beta.md"} {
		data, _ := os.ReadFile(filepath.Join(dir, name))
		if string(data) == "marker" {
			t.Errorf("%s was not rewritten with resave=true", name)
		}
	}
}

func TestStore_SaveReadmeFailureKeepsEmptyField(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, fetcherFunc(func(_ context.Context, owner, name string) (string, error) {
		return "", fmt.Errorf("boom")
	}))

	if err := s.Save(context.Background(), testRepos()[:1], false); err != nil {
		t.Fatalf("Save should not fail on readme errors: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "alpha.md"))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if !strings.HasSuffix(string(data), "Some of the content needs to be parsed in HTML format.)\n") {
		t.Error("readme section should be empty after a failed fetch")
	}
}

func TestStore_Documents(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "one.md"):   "first",
		filepath.Join(sub, "two.md"):   "second",
		filepath.Join(dir, "skip.txt"): "not markdown",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := NewStore(dir, nil).Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2: %v", len(docs), docs)
	}
	if docs[filepath.Join(dir, "one.md")] != "first" {
		t.Error("one.md content mismatch")
	}
	if docs[filepath.Join(sub, "two.md")] != "second" {
		t.Error("nested two.md not found")
	}
}
