package main

import (
	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/cli"
)

func main() {
	if err := cli.App(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
