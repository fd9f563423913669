package main

import (
	"os"

	"git.sr.ht/~jakintosh/requestline/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
