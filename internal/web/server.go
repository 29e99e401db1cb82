package web

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/config"
	"github.com/mderval/gistfeed/internal/github"
	"github.com/mderval/gistfeed/internal/validator"
	"github.com/mderval/gistfeed/public"
)

// Server serves the gist feed over HTTP. The feed page runs a fresh
// build per request, so it always reflects the live gist list.
type Server struct {
	echo   *echo.Echo
	client *github.Client

	dev bool
}

func NewServer(isDev bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewValidator()

	s := &Server{
		echo: e,
		client: github.NewClient(github.Options{
			BaseURL:   config.C.GithubAPIURL,
			PageSize:  config.C.GithubPageSize,
			Timeout:   time.Duration(config.C.GithubTimeout) * time.Second,
			UserAgent: "gistfeed/" + config.GistfeedVersion,
		}),
		dev: isDev,
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.feedPage)
	s.echo.GET("/healthcheck", s.healthcheck)

	if config.C.MetricsEnabled {
		s.echo.GET("/metrics", echoprometheus.NewHandler())
	}

	s.echo.GET("/assets/*", func(ctx echo.Context) error {
		if _, err := public.Files.Open(path.Join("assets", ctx.Param("*"))); err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		if !s.dev {
			ctx.Response().Header().Set("Cache-Control", "public, max-age=31536000")
			ctx.Response().Header().Set("Expires", time.Now().AddDate(1, 0, 0).Format(http.TimeFormat))
		}
		return echo.WrapHandler(http.FileServer(http.FS(public.Files)))(ctx)
	})
}

func (s *Server) Start() {
	addr := config.C.HttpHost + ":" + config.C.HttpPort

	log.Info().Msg("Starting HTTP server on http://" + addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to stop HTTP server gracefully")
		_ = s.echo.Close()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
