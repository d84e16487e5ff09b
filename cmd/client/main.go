package main

import (
	"context"
	"fmt"
	"os"

	"github.com/airvent/subscription/internal/client/cli"
	"github.com/airvent/subscription/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	root := cli.NewRootCommand(cli.NewApp(cfg))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

}
