package main

import (
	"os"
	_ "time/tzdata"

	"psicocitas-web/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
