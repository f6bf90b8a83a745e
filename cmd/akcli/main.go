package main

import (
	"os"

	"akcli/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
