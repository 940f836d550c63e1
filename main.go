package main

import (
	"os"

	"github.com/BaranTeyin1/Aegiscan-cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
