package main

import (
	"os"

	"github.com/goliatone/go-view/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
