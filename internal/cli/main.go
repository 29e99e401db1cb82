package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/mderval/gistfeed/internal/config"
	"github.com/mderval/gistfeed/internal/feed"
	"github.com/mderval/gistfeed/internal/github"
	"github.com/mderval/gistfeed/internal/web"
	"github.com/mderval/gistfeed/public"
)

var CmdVersion = cli.Command{
	Name:  "version",
	Usage: "Print the version of Gistfeed",
	Action: func(_ *cli.Context) error {
		fmt.Println("Gistfeed " + config.GistfeedVersion)
		return nil
	},
}

var CmdServe = cli.Command{
	Name:  "serve",
	Usage: "Serve the gist feed over HTTP",
	Action: func(ctx *cli.Context) error {
		Initialize(ctx)

		server := web.NewServer(os.Getenv("GF_DEV") == "1")
		go server.Start()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Info().Msg("Shutting down...")
		server.Stop()
		return nil
	},
}

var CmdBuild = cli.Command{
	Name:  "build",
	Usage: "Build the gist feed into a static site",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory to write the site into",
		},
	},
	Action: func(ctx *cli.Context) error {
		Initialize(ctx)

		client := github.NewClient(github.Options{
			BaseURL:   config.C.GithubAPIURL,
			PageSize:  config.C.GithubPageSize,
			Timeout:   time.Duration(config.C.GithubTimeout) * time.Second,
			UserAgent: "gistfeed/" + config.GistfeedVersion,
		})

		loader := feed.NewLoader(feed.Options{
			Client:    client,
			User:      config.C.GithubUser,
			Title:     config.C.SiteTitle,
			Canonical: config.C.ExternalUrl,
			Reporter:  &feed.BarReporter{},
		})

		page, err := loader.Run(ctx.Context)
		if err != nil {
			return cli.Exit(fmt.Sprintf("building feed: %s", err), 1)
		}

		output := ctx.String("output")
		if output == "" {
			output = config.C.BuildOutput
		}

		assets, err := public.Assets()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if err := page.Write(output, assets); err != nil {
			return cli.Exit(fmt.Sprintf("writing site: %s", err), 1)
		}

		log.Info().Str("dir", output).Int("gists", len(page.Entries)).Msg("Static site written")
		return nil
	},
}

var ConfigFlag = cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file in YAML format",
}

func App() error {
	app := cli.NewApp()
	app.Name = "Gistfeed"
	app.Usage = "A GitHub gist feed for your personal site."
	app.HelpName = "gistfeed"

	app.Commands = []*cli.Command{&CmdVersion, &CmdServe, &CmdBuild}
	app.DefaultCommand = CmdServe.Name
	app.Flags = []cli.Flag{
		&ConfigFlag,
	}
	return app.Run(os.Args)
}

func Initialize(ctx *cli.Context) {
	fmt.Println("Gistfeed " + config.GistfeedVersion)

	if err := config.InitConfig(ctx.String("config")); err != nil {
		panic(err)
	}

	config.InitLog()

	if err := config.Check(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
}
