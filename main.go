package main

import (
	"os"

	"github.com/callscope/callscope/cli"
)

func main() {
	os.Exit(cli.Execute())
}
