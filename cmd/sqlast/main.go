package main

import (
	"os"

	"github.com/sqlc-dev/sqlast/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
