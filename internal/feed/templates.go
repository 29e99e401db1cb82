package feed

import "html/template"

var pageTmpl = template.Must(template.New("feed").Parse(pageTemplate))

// pageTemplate is the whole feed document. Index and content both range
// over .Entries, which keeps the two sections aligned by construction.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<meta name="generator" content="gistfeed" />
<meta name="build" content="{{.BuildID}}" />
<title>{{.Title}}</title>
{{- with .Canonical}}
<link rel="canonical" href="{{.}}" />
{{- end}}
<link rel="stylesheet" href="assets/style.css" />
</head>
<body id="top">
<header id="site-header">
<a class="brand" href="#top">{{.Title}}</a>
<button id="nav-toggle" type="button" aria-label="Toggle navigation" aria-expanded="false"><span></span><span></span><span></span></button>
<nav id="site-nav">
<ul>
<li><a href="#top">Top</a></li>
<li><a href="#gists">Gists</a></li>
</ul>
</nav>
</header>
<main>
<h1>Public gists of {{.User}}</h1>
{{- if .Errored}}
<nav class="gist-index errored" aria-label="Gist index">
<ul><li>error</li></ul>
</nav>
<section id="gists">
<p class="feed-error">Unable to load gists. This can happen when the GitHub API rate limit is hit, the network is unreachable, or the user does not exist or has no public gists.</p>
</section>
{{- else if .Empty}}
<nav class="gist-index" aria-label="Gist index">
<ul><li>no gists</li></ul>
</nav>
<section id="gists">
<p class="feed-empty">no gists found</p>
</section>
{{- else}}
<nav class="gist-index" aria-label="Gist index">
<ul>
{{- range .Entries}}
<li><a href="#{{.Anchor}}">{{.Title}}</a></li>
{{- end}}
</ul>
</nav>
<section id="gists">
{{- range .Entries}}
<article class="gist" id="{{.Anchor}}">
<h2><a href="{{.HTMLURL}}" rel="noopener">{{.Title}}</a></h2>
<p class="gist-meta">{{with .Filename}}<span class="filename">{{.}}</span> · {{end}}<time datetime="{{.ISODate}}">{{.Created}}</time> · {{.Ago}}</p>
<div class="gist-content">{{.Content.HTML}}</div>
</article>
{{- end}}
</section>
{{- end}}
</main>
<footer>
<p>built {{.BuiltStamp}} · build {{.BuildID}}</p>
</footer>
<script src="assets/site.js"></script>
</body>
</html>
`
