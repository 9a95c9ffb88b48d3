package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/cmd"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load()
	root := cmd.NewRootCmd(version, buildDate)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
