package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/classify"
	"github.com/mderval/gistfeed/internal/github"
	"github.com/mderval/gistfeed/internal/metrics"
	"github.com/mderval/gistfeed/internal/render"
)

// Loader runs one feed build: list every public gist of a user, then
// render them strictly one at a time, in API order. A Loader is good
// for a single Run; build again with a fresh one.
type Loader struct {
	client    *github.Client
	user      string
	title     string
	canonical string
	reporter  Reporter

	state State
}

type Options struct {
	Client *github.Client
	User   string

	// Title is the page title; defaults to "Public gists".
	Title string

	// Canonical is the page's public URL, emitted as the canonical
	// link; empty omits it.
	Canonical string

	// Reporter receives render progress; nil means no reporting.
	Reporter Reporter
}

func NewLoader(opts Options) *Loader {
	l := &Loader{
		client:    opts.Client,
		user:      opts.User,
		title:     opts.Title,
		canonical: opts.Canonical,
		reporter:  opts.Reporter,
		state:     StateIdle,
	}
	if l.title == "" {
		l.title = "Public gists"
	}
	if l.reporter == nil {
		l.reporter = NopReporter{}
	}
	return l
}

// State returns the build's lifecycle state.
func (l *Loader) State() State { return l.state }

// Run executes the whole pipeline and returns the assembled page. The
// page is always usable: on error it carries the error state so it can
// still be rendered as the error document. The error itself is non-nil
// only when listing failed with nothing accumulated; per-gist failures
// are contained as placeholder entries.
func (l *Loader) Run(ctx context.Context) (*Page, error) {
	start := time.Now()
	page := &Page{
		Title:     l.title,
		User:      l.user,
		Canonical: l.canonical,
		BuildID:   uuid.NewString(),
		BuiltAt:   start,
	}

	l.state = StateLoading
	gists, err := l.client.ListGists(ctx, l.user)
	if err != nil {
		l.finish(page, StateErrored)
		return page, fmt.Errorf("listing gists for %s: %w", l.user, err)
	}

	if len(gists) == 0 {
		log.Info().Str("user", l.user).Msg("No public gists found")
		l.finish(page, StateEmpty)
		return page, nil
	}

	l.state = StateRendering
	l.reporter.Start(len(gists))
	for i, gist := range gists {
		l.reporter.Update(i+1, fmt.Sprintf("Loading gist %d of %d…", i+1, len(gists)))
		page.Entries = append(page.Entries, l.renderGist(ctx, gist, i))
	}
	l.reporter.Finish()

	l.finish(page, StateDone)
	log.Info().Str("user", l.user).Str("build", page.BuildID).Int("gists", len(page.Entries)).
		Dur("took", time.Since(start)).Msg("Feed build finished")
	return page, nil
}

func (l *Loader) finish(page *Page, s State) {
	l.state = s
	page.State = s
	metrics.FeedBuilds.WithLabelValues(s.String()).Inc()
}

// renderGist builds the entry for one gist. Failures stay local: a gist
// whose preview cannot be produced gets the placeholder content and the
// loop moves on.
func (l *Loader) renderGist(ctx context.Context, gist github.Gist, position int) Entry {
	title := gist.Title(position)

	entry := Entry{
		Anchor:    anchorFor(position, gist.Description),
		Title:     title,
		HTMLURL:   gist.HTMLURL,
		CreatedAt: gist.CreatedAt,
	}

	file, ok := gist.FirstFile()
	if !ok {
		log.Warn().Str("gist", gist.ID).Msg("Gist has no files")
		metrics.RenderFailures.Inc()
		entry.Content = render.Failure()
		return entry
	}
	entry.Filename = file.Filename

	content, err := l.renderFile(ctx, file)
	if err != nil {
		log.Error().Err(err).Str("gist", gist.ID).Str("file", file.Filename).
			Msg("Could not render gist preview")
		metrics.RenderFailures.Inc()
		entry.Content = render.Failure()
		return entry
	}

	metrics.GistsRendered.Inc()
	entry.Content = content
	return entry
}

// renderFile dispatches on the file kind. Only the gist's first file
// ever gets here; siblings in a multi-file gist are not shown.
func (l *Loader) renderFile(ctx context.Context, file github.File) (render.Content, error) {
	switch classify.FileKind(file.Filename) {
	case classify.KindImage:
		return render.Image(file.RawURL, file.Filename), nil

	case classify.KindMarkdown:
		source, err := l.client.FetchRaw(ctx, file.RawURL)
		if err != nil {
			return render.Content{}, err
		}
		return render.Markdown(source)

	default:
		source, err := l.client.FetchRaw(ctx, file.RawURL)
		if err != nil {
			return render.Content{}, err
		}
		return render.Code(source, classify.Category(file.Filename, file.Language)), nil
	}
}

// anchorFor derives the block id from the position and the description,
// so a gist without one gets the bare gist-N anchor.
func anchorFor(position int, description string) string {
	anchor := fmt.Sprintf("gist-%d", position+1)
	if slug := slugify(description); slug != "" {
		anchor += "-" + slug
	}
	return anchor
}
