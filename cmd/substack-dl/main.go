// Command substack-dl downloads a publication's feed and saves every post as
// a Markdown file named MM-DD-YYYY-{slug}.md.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/substack-dl/cmd/substack-dl/commands"
	"git.home.luguber.info/inful/substack-dl/internal/config"
	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("substack-dl"),
		kong.Description("Download a publication's posts as Markdown files."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version.String(),
			"config_file": config.DefaultConfigFile,
		},
	)

	global := &commands.Global{Stdout: os.Stdout, Stderr: os.Stderr}
	if err := ctx.Run(global, &cli); err != nil {
		sderrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
