package main

import (
	"context"
	"log"
	"os"

	"github.com/kofany/sshm.io/internal/buildinfo"
	"github.com/kofany/sshm.io/internal/client/cli"
	"github.com/kofany/sshm.io/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
