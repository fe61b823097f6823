package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MacroPower/xgoimages/internal/cli"
)

const (
	cmdName = "xgoimages"

	shortDesc = "Generate cross-compilation toolchain images for the current Go releases."
	longDesc  = `xgoimages keeps a set of toolchain Dockerfiles in step with the stable Go
releases.

The generate command reads the upstream release feed and writes one Dockerfile
per release, one per major.minor line, and a pointer to the newest line. The
matrix command turns the saved release versions into a CI job matrix.
`
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	err := cmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
