package main

import (
	"fmt"
	"os"

	"porterage/internal/cli"

	"github.com/fatih/color"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
