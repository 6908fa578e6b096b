package main

import (
	"context"
	"log"

	"github.com/Clar17y/Football-Events-sub005/internal/client/cli"
	"github.com/Clar17y/Football-Events-sub005/internal/client/config"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
