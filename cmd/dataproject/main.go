package main

import (
	"fmt"
	"os"

	"github.com/askiada/go-dataproject/internal/cli"
	"github.com/askiada/go-dataproject/internal/settings"
)

func main() {
	if err := settings.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(int(cli.Run()))
}
