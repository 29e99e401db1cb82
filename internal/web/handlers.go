package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/config"
	"github.com/mderval/gistfeed/internal/feed"
)

// feedPage runs a full feed build and writes the document. The error
// state is part of the page, so the response stays 200 and shows the
// error document rather than an HTTP error.
func (s *Server) feedPage(ctx echo.Context) error {
	loader := feed.NewLoader(feed.Options{
		Client:    s.client,
		User:      config.C.GithubUser,
		Title:     config.C.SiteTitle,
		Canonical: config.C.ExternalUrl,
		Reporter:  feed.LogReporter{},
	})

	page, err := loader.Run(ctx.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Feed build failed")
	}

	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(http.StatusOK)
	return page.Render(ctx.Response())
}

func (s *Server) healthcheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"gistfeed": "ok",
		"version":  config.GistfeedVersion,
		"time":     time.Now().Format(time.RFC3339),
	})
}
