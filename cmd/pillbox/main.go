package main

import (
	"os"

	"pillbox/internal/cli"
	appLog "pillbox/internal/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		appLog.Error("pillbox failed", err)
		os.Exit(1)
	}
}
