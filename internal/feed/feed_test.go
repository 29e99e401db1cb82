package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mderval/gistfeed/internal/github"
	"github.com/mderval/gistfeed/internal/render"
)

type recordingReporter struct {
	total    int
	messages []string
	finished bool
}

func (r *recordingReporter) Start(total int) { r.total = total }

func (r *recordingReporter) Update(_ int, message string) {
	r.messages = append(r.messages, message)
}

func (r *recordingReporter) Finish() { r.finished = true }

type fakeFile struct {
	name     string
	language string
	rawPath  string
}

type fakeGist struct {
	id    string
	desc  string
	files []fakeFile
}

type requestLog struct {
	paths []string
}

// newFeedServer fakes both API surfaces the loader talks to: the paged
// gist listing and the raw content host.
func newFeedServer(t *testing.T, pages [][]fakeGist, raw map[string]string) (*httptest.Server, *requestLog) {
	t.Helper()

	reqs := &requestLog{}
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs.paths = append(reqs.paths, r.URL.Path)

		if strings.HasPrefix(r.URL.Path, "/raw/") {
			content, ok := raw[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, content)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 || page > len(pages) {
			fmt.Fprint(w, "[]")
			return
		}
		if page < len(pages) {
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=%d>; rel="next"`, srv.URL, r.URL.Path, page+1))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, pageJSON(srv.URL, pages[page-1]))
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func pageJSON(base string, gists []fakeGist) string {
	items := make([]string, 0, len(gists))
	for _, g := range gists {
		files := make([]string, 0, len(g.files))
		for _, f := range g.files {
			files = append(files, fmt.Sprintf(`%q: {"filename": %q, "language": %q, "raw_url": %q}`,
				f.name, f.name, f.language, base+f.rawPath))
		}
		items = append(items, fmt.Sprintf(
			`{"id": %q, "description": %q, "html_url": "https://gist.github.com/u/%s", "created_at": "2024-03-10T12:00:00Z", "files": {%s}}`,
			g.id, g.desc, g.id, strings.Join(files, ", ")))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func newTestLoader(srv *httptest.Server, reporter Reporter) *Loader {
	return NewLoader(Options{
		Client:   github.NewClient(github.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}),
		User:     "octocat",
		Title:    "My gists",
		Reporter: reporter,
	})
}

func TestRunBuildsOrderedFeed(t *testing.T) {
	pages := [][]fakeGist{
		{
			{id: "g1", desc: "Readme notes", files: []fakeFile{{name: "notes.md", language: "Markdown", rawPath: "/raw/notes.md"}}},
			{id: "g2", desc: "Install script", files: []fakeFile{{name: "install.sh", language: "Shell", rawPath: "/raw/install.sh"}}},
		},
		{
			{id: "g3", desc: "Architecture sketch", files: []fakeFile{{name: "sketch.svg", language: "SVG", rawPath: "/raw/sketch.svg"}}},
		},
	}
	raw := map[string]string{
		"/raw/notes.md":   "# Hello\n\nplain words\n",
		"/raw/install.sh": "echo hi\n",
	}

	srv, reqs := newFeedServer(t, pages, raw)
	reporter := &recordingReporter{}
	loader := newTestLoader(srv, reporter)

	page, err := loader.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, loader.State())
	require.Equal(t, StateDone, page.State)
	require.Len(t, page.Entries, 3)

	assert.Equal(t, "Readme notes", page.Entries[0].Title)
	assert.Equal(t, "gist-2-install-script", page.Entries[1].Anchor)

	// Dispatch per file kind.
	assert.Contains(t, string(page.Entries[0].Content.HTML), "<h1")
	assert.Contains(t, string(page.Entries[1].Content.HTML), `class="language-bash"`)
	assert.Contains(t, string(page.Entries[2].Content.HTML), srv.URL+"/raw/sketch.svg")

	// SVGs embed by URL, the content is never fetched as text.
	assert.NotContains(t, reqs.paths, "/raw/sketch.svg")

	// One progress message per gist, before each render.
	assert.Equal(t, 3, reporter.total)
	assert.Equal(t, []string{
		"Loading gist 1 of 3…",
		"Loading gist 2 of 3…",
		"Loading gist 3 of 3…",
	}, reporter.messages)
	assert.True(t, reporter.finished)
}

func TestRenderedDocumentKeepsIndexAligned(t *testing.T) {
	pages := [][]fakeGist{{
		{id: "g1", desc: "First snippet", files: []fakeFile{{name: "a.py", rawPath: "/raw/a"}}},
		{id: "g2", desc: "Second snippet", files: []fakeFile{{name: "b.py", rawPath: "/raw/b"}}},
		{id: "g3", desc: "Third snippet", files: []fakeFile{{name: "c.py", rawPath: "/raw/c"}}},
	}}
	raw := map[string]string{
		"/raw/a": "print('a')\n",
		"/raw/b": "print('b')\n",
		"/raw/c": "print('c')\n",
	}

	srv, _ := newFeedServer(t, pages, raw)
	page, err := newTestLoader(srv, nil).Run(context.Background())
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, page.Render(&buf))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)

	var indexTargets []string
	doc.Find("nav.gist-index a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		indexTargets = append(indexTargets, strings.TrimPrefix(href, "#"))
	})

	var blockIDs []string
	doc.Find("article.gist").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		blockIDs = append(blockIDs, id)
	})

	require.Len(t, indexTargets, 3)
	assert.Equal(t, indexTargets, blockIDs)
}

func TestRunEmptyUser(t *testing.T) {
	srv, _ := newFeedServer(t, [][]fakeGist{{}}, nil)
	reporter := &recordingReporter{}
	loader := newTestLoader(srv, reporter)

	page, err := loader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, page.State)
	assert.True(t, page.Empty())
	assert.Empty(t, page.Entries)

	// Rendering never starts for an empty feed.
	assert.Zero(t, reporter.total)
	assert.False(t, reporter.finished)

	var buf strings.Builder
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "no gists found")
	assert.NotContains(t, buf.String(), "<article")
}

func TestRunErrorTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	reporter := &recordingReporter{}
	loader := newTestLoader(srv, reporter)

	page, err := loader.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateErrored, loader.State())
	assert.True(t, page.Errored())
	assert.Zero(t, reporter.total)

	// The page still renders, as the error document.
	var buf strings.Builder
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "Unable to load gists")
	assert.Contains(t, buf.String(), "errored")
}

func TestRunIsolatesFileFailures(t *testing.T) {
	pages := [][]fakeGist{{
		{id: "g1", desc: "ok one", files: []fakeFile{{name: "one.sh", rawPath: "/raw/one"}}},
		{id: "g2", desc: "broken", files: []fakeFile{{name: "two.sh", rawPath: "/raw/missing"}}},
		{id: "g3", desc: "ok three", files: []fakeFile{{name: "three.sh", rawPath: "/raw/three"}}},
	}}
	raw := map[string]string{
		"/raw/one":   "echo one\n",
		"/raw/three": "echo three\n",
	}

	srv, _ := newFeedServer(t, pages, raw)
	page, err := newTestLoader(srv, nil).Run(context.Background())

	// One broken preview never aborts the loop.
	require.NoError(t, err)
	require.Equal(t, StateDone, page.State)
	require.Len(t, page.Entries, 3)

	assert.False(t, page.Entries[0].Content.Failed)
	assert.True(t, page.Entries[1].Content.Failed)
	assert.Contains(t, string(page.Entries[1].Content.HTML), "could not load preview")
	assert.False(t, page.Entries[2].Content.Failed)
	assert.Contains(t, string(page.Entries[2].Content.HTML), "echo three")
}

func TestRunGistWithoutFiles(t *testing.T) {
	pages := [][]fakeGist{{
		{id: "g1", desc: "no files at all"},
	}}

	srv, _ := newFeedServer(t, pages, nil)
	page, err := newTestLoader(srv, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.True(t, page.Entries[0].Content.Failed)
}

func TestRunTitleFallback(t *testing.T) {
	pages := [][]fakeGist{{
		{id: "g1", desc: "", files: []fakeFile{{name: "a.txt", rawPath: "/raw/a"}}},
		{id: "g2", desc: "", files: []fakeFile{{name: "b.txt", rawPath: "/raw/b"}}},
	}}
	raw := map[string]string{"/raw/a": "a", "/raw/b": "b"}

	srv, _ := newFeedServer(t, pages, raw)
	page, err := newTestLoader(srv, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Gist 1", page.Entries[0].Title)
	assert.Equal(t, "gist-1", page.Entries[0].Anchor)
	assert.Equal(t, "Gist 2", page.Entries[1].Title)
	assert.Equal(t, "gist-2", page.Entries[1].Anchor)
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Install script", "install-script"},
		{"Crème brûlée recipe", "creme-brulee-recipe"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"!!!", ""},
		{"déjà-vu 2.0", "deja-vu-2-0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestPageWrite(t *testing.T) {
	page := &Page{
		Title:     "My gists",
		User:      "octocat",
		Canonical: "https://example.com/gists",
		BuildID:   "build-1",
		BuiltAt:   time.Now(),
		State:     StateDone,
		Entries: []Entry{{
			Anchor:    "gist-1-hello",
			Title:     "hello",
			CreatedAt: time.Now(),
			Content:   render.Content{HTML: "<p>hi</p>"},
		}},
	}

	assets := fstest.MapFS{
		"site.js":   &fstest.MapFile{Data: []byte("// nav wiring")},
		"style.css": &fstest.MapFile{Data: []byte("body {}")},
	}

	dir := t.TempDir()
	require.NoError(t, page.Write(dir, assets))

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<article")
	assert.Contains(t, string(html), "gist-1-hello")
	assert.Contains(t, string(html), `<link rel="canonical" href="https://example.com/gists" />`)

	for _, name := range []string{"site.js", "style.css"} {
		_, err := os.Stat(filepath.Join(dir, "assets", name))
		require.NoError(t, err, name)
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "error", StateErrored.String())
	assert.False(t, StateLoading.Terminal())
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateEmpty.Terminal())
	assert.True(t, StateErrored.Terminal())
}
