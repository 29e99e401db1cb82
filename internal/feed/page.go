package feed

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mderval/gistfeed/internal/render"
)

// Page is one assembled feed document.
type Page struct {
	Title     string
	User      string
	Canonical string
	BuildID   string
	BuiltAt   time.Time
	State     State
	Entries   []Entry
}

// Entry is one gist in the feed: an index entry and a content block.
// Both template sections range over the same slice, so index entry i
// always links content block i.
type Entry struct {
	Anchor    string
	Title     string
	HTMLURL   string
	CreatedAt time.Time
	Filename  string
	Content   render.Content
}

func (p *Page) Errored() bool { return p.State == StateErrored }

func (p *Page) Empty() bool { return p.State == StateEmpty }

// BuiltStamp is the absolute build time shown in the footer.
func (p *Page) BuiltStamp() string {
	return p.BuiltAt.UTC().Format("2 Jan 2006 15:04 MST")
}

func (e Entry) Created() string {
	return e.CreatedAt.Format("2 Jan 2006")
}

func (e Entry) ISODate() string {
	return e.CreatedAt.Format(time.RFC3339)
}

// Ago is the relative date stamp, as of render time.
func (e Entry) Ago() string {
	return humanize.Time(e.CreatedAt)
}

// Render writes the full HTML document.
func (p *Page) Render(w io.Writer) error {
	return pageTmpl.Execute(w, p)
}

// Write renders the page into dir as index.html and copies the static
// assets next to it, producing a self-contained site.
func (p *Page) Write(dir string, assets fs.FS) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := p.Render(f); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return fs.WalkDir(assets, ".", func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		data, err := fs.ReadFile(assets, name)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, "assets", name)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

var slugStrip = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify builds the anchor fragment for a title: diacritics stripped,
// lowercased, runs of anything non-alphanumeric collapsed to one dash.
func slugify(s string) string {
	if stripped, _, err := transform.String(slugStrip, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
