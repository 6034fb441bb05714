package main

import (
	"os"

	"github.com/Agrumas/gh-ranker/cmd/ghranker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
