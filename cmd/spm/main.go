package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/spm/internal/cli"
	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args[1:]
	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, flagx.StripArgs(args, config.ValueFlags, nil))
	app.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

}
