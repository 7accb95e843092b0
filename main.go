package main

import (
	"os"

	"github.com/riskibarqy/go-commitmsg/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
