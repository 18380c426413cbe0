package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airmomo/starsearch/internal/config"
	"github.com/airmomo/starsearch/internal/repo"
	"github.com/airmomo/starsearch/internal/search"
)

type fakeFetcher struct {
	repos []repo.Repository
	err   error
}

func (f *fakeFetcher) ListStarred(context.Context) ([]repo.Repository, error) {
	return f.repos, f.err
}

type fakeSaver struct {
	gotResave bool
	gotRepos  []repo.Repository
	err       error
}

func (f *fakeSaver) Save(_ context.Context, repos []repo.Repository, resave bool) error {
	f.gotRepos = repos
	f.gotResave = resave
	return f.err
}

type fakeRunner struct {
	runs int
	err  error
}

func (f *fakeRunner) Run(context.Context) error {
	f.runs++
	return f.err
}

type fakeSearcher struct {
	gotRequirement string
	result         *search.Result
	err            error
}

func (f *fakeSearcher) Search(_ context.Context, requirement string) (*search.Result, error) {
	f.gotRequirement = requirement
	return f.result, f.err
}

type fakeFactory struct {
	fetcher  *fakeFetcher
	saver    *fakeSaver
	runner   *fakeRunner
	searcher *fakeSearcher
}

func (f *fakeFactory) Fetcher(config.Settings) (Fetcher, error)                    { return f.fetcher, nil }
func (f *fakeFactory) DocStore(config.Settings) (DocSaver, error)                  { return f.saver, nil }
func (f *fakeFactory) Pipeline(context.Context, config.Settings) (Runner, error)   { return f.runner, nil }
func (f *fakeFactory) Searcher(context.Context, config.Settings) (Searcher, error) { return f.searcher, nil }

func newTestHandler(t *testing.T, factory *fakeFactory) (http.Handler, *config.Manager) {
	t.Helper()
	m, err := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewHandler(Deps{Config: m, Factory: factory}), m
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestGetSettings_EmptyBeforeFirstSave(t *testing.T) {
	h, _ := newTestHandler(t, &fakeFactory{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Errorf("body = %q, want {}", got)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	h, m := newTestHandler(t, &fakeFactory{})

	body := `{"github_token": "ghp_x", "re_save": true, "retriever_n_results": 3}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/save-settings", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var status statusResponse
	decodeBody(t, rec, &status)
	if status.Message != "Settings saved successfully!" || status.Success != 1 {
		t.Errorf("unexpected status: %+v", status)
	}

	got := m.Current()
	if got.GitHubToken != "ghp_x" || !got.ReSave || got.RetrieverNResults != 3 {
		t.Errorf("saved settings = %+v", got)
	}
	// Omitted fields keep their defaults.
	if got.DirectoryPath != "static/repo_md" {
		t.Errorf("DirectoryPath = %q, want default", got.DirectoryPath)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-settings", nil))
	var loaded config.Settings
	decodeBody(t, rec, &loaded)
	if loaded != got {
		t.Errorf("get-settings = %+v, want %+v", loaded, got)
	}
}

func TestInitGitHubData(t *testing.T) {
	factory := &fakeFactory{
		fetcher: &fakeFetcher{repos: []repo.Repository{{Owner: "a", Name: "alpha"}}},
		saver:   &fakeSaver{},
	}
	h, m := newTestHandler(t, factory)
	s := config.Defaults()
	s.ReSave = true
	if err := m.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/init-github-data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var status statusResponse
	decodeBody(t, rec, &status)
	if status.Message != "Github-star-data inited successfully!" || status.Success != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
	if len(factory.saver.gotRepos) != 1 || factory.saver.gotRepos[0].Name != "alpha" {
		t.Errorf("saver got %+v", factory.saver.gotRepos)
	}
	if !factory.saver.gotResave {
		t.Error("re_save setting not passed through")
	}
}

func TestInitGitHubData_FetchErrorIs500Detail(t *testing.T) {
	factory := &fakeFactory{
		fetcher: &fakeFetcher{err: errors.New("bad credentials")},
		saver:   &fakeSaver{},
	}
	h, _ := newTestHandler(t, factory)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/init-github-data", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "bad credentials" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestInitCollection(t *testing.T) {
	factory := &fakeFactory{runner: &fakeRunner{}}
	h, _ := newTestHandler(t, factory)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/init-chroma-collection", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var status statusResponse
	decodeBody(t, rec, &status)
	if status.Message != "Chroma-collection inited successfully!" || status.Success != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
	if factory.runner.runs != 1 {
		t.Errorf("pipeline ran %d times, want 1", factory.runner.runs)
	}
}

func TestSearch_ResultPath(t *testing.T) {
	factory := &fakeFactory{searcher: &fakeSearcher{
		result: &search.Result{Repositories: []search.RepoDescriptor{
			{Name: "hello", Owner: "octocat", URL: "https://github.com/octocat/hello"},
		}},
	}}
	h, _ := newTestHandler(t, factory)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"detail": "find a demo"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if factory.searcher.gotRequirement != "find a demo" {
		t.Errorf("requirement = %q", factory.searcher.gotRequirement)
	}
	var result search.Result
	decodeBody(t, rec, &result)
	if len(result.Repositories) != 1 || result.Repositories[0].Name != "hello" {
		t.Errorf("result = %+v", result)
	}
}

func TestSearch_NilResultIsEmptyObject(t *testing.T) {
	factory := &fakeFactory{searcher: &fakeSearcher{result: nil}}
	h, _ := newTestHandler(t, factory)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Errorf("body = %q, want {}", got)
	}
	// An absent detail falls back to the default requirement.
	if factory.searcher.gotRequirement != "Nothing" {
		t.Errorf("requirement = %q, want Nothing", factory.searcher.gotRequirement)
	}
}

func TestSearch_ErrorIs500Detail(t *testing.T) {
	factory := &fakeFactory{searcher: &fakeSearcher{err: errors.New("parsing repositories XML: EOF")}}
	h, _ := newTestHandler(t, factory)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"detail": "x"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "parsing repositories XML: EOF" {
		t.Errorf("detail = %q", body["detail"])
	}
}
