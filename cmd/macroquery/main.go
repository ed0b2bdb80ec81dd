package main

import (
	"os"

	"github.com/ndolage/macroquery/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
