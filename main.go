package main

import (
	"fmt"
	"os"

	"github.com/mlihgenel/padedit-cli/cmd"
)

var (
	version = "1.0.0"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Hata: %v\n", err)
		os.Exit(1)
	}
}
