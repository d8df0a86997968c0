package main

import (
	"os"

	"github.com/samithreddychinni/greedytangle/internal/cli"
	"github.com/samithreddychinni/greedytangle/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
