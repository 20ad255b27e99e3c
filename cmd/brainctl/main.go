package main

import (
	"os"

	"github.com/brainctl/brainctl/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
