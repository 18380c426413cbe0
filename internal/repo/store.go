package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ReadmeFetcher retrieves the raw README text for a repository.
type ReadmeFetcher interface {
	Readme(ctx context.Context, owner, name string) (string, error)
}

// Store writes one document per repository into a local directory and reads
// them back for ingestion. Files are named "<repository-name>.md"; name
// collisions across different owners are a known, unhandled edge case.
type Store struct {
	dir     string
	fetcher ReadmeFetcher
	logger  *slog.Logger
}

// NewStore creates a Store over dir. fetcher may be nil when every
// repository already carries its README content.
func NewStore(dir string, fetcher ReadmeFetcher) *Store {
	return &Store{dir: dir, fetcher: fetcher, logger: slog.Default()}
}

// Save writes the markdown dump of each repository unless the file already
// exists and resave is false. Writing forces README retrieval first; a
// failed README fetch is logged and leaves the field empty rather than
// aborting the batch.
func (s *Store) Save(ctx context.Context, repos []Repository, resave bool) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	for i := range repos {
		r := &repos[i]
		path := filepath.Join(s.dir, r.Name+".md")

		if !resave {
			if _, err := os.Stat(path); err == nil {
				s.logger.Info("document already saved", "repository", r.Owner+"/"+r.Name, "path", path)
				continue
			}
		}

		s.ensureReadme(ctx, r)
		if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
			return fmt.Errorf("writing document %s: %w", path, err)
		}
		s.logger.Info("saved document", "repository", r.Owner+"/"+r.Name, "path", path)
	}
	return nil
}

// SaveJSON writes a JSON dump of each repository next to the markdown
// documents, named "<repository-name>.json". Always overwrites.
func (s *Store) SaveJSON(ctx context.Context, repos []Repository) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	for i := range repos {
		r := &repos[i]
		s.ensureReadme(ctx, r)

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling %s/%s: %w", r.Owner, r.Name, err)
		}
		path := filepath.Join(s.dir, r.Name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing document %s: %w", path, err)
		}
		s.logger.Info("saved document", "repository", r.Owner+"/"+r.Name, "path", path)
	}
	return nil
}

func (s *Store) ensureReadme(ctx context.Context, r *Repository) {
	if r.Readme != "" || s.fetcher == nil {
		return
	}
	content, err := s.fetcher.Readme(ctx, r.Owner, r.Name)
	if err != nil {
		s.logger.Warn("fetching readme failed", "repository", r.Owner+"/"+r.Name, "error", err)
		return
	}
	r.Readme = content
}

// Documents returns every markdown document under the store directory,
// recursively, keyed by file path. The paths double as index entry IDs.
func (s *Store) Documents() (map[string]string, error) {
	docs := make(map[string]string)
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs[path] = string(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking document directory: %w", err)
	}
	return docs, nil
}
