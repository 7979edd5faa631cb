package main

import (
	"context"
	"os"

	"github.com/spec-kit/directory-client/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), cli.Options{Version: version}, os.Args[1:]); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
