package main

import (
	"os"

	"github.com/bnema/sentra-emo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
