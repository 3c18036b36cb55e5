package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/substack-dl/internal/config"
	"git.home.luguber.info/inful/substack-dl/internal/convert"
	"git.home.luguber.info/inful/substack-dl/internal/feed"
	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/logfields"
	"git.home.luguber.info/inful/substack-dl/internal/metrics"
	"git.home.luguber.info/inful/substack-dl/internal/pipeline"
	"git.home.luguber.info/inful/substack-dl/internal/post"
	"git.home.luguber.info/inful/substack-dl/internal/prompt"
	"git.home.luguber.info/inful/substack-dl/internal/workspace"
	"git.home.luguber.info/inful/substack-dl/internal/writer"
)

// DownloadCmd implements the default command.
type DownloadCmd struct {
	Source    string `arg:"" help:"Publication domain or URL, e.g. example.substack.com"`
	OutputDir string `arg:"" name:"output-dir" help:"Output directory, relative to the staging root unless absolute"`

	Yes         bool           `short:"y" help:"Overwrite an existing output directory without asking"`
	DryRun      bool           `name:"dry-run" help:"Fetch and convert posts but write nothing"`
	FrontMatter bool           `name:"front-matter" help:"Prefix each post with YAML front matter"`
	Strict      bool           `help:"Abort on the first invalid feed entry instead of skipping it"`
	Root        string         `help:"Staging root for relative output directories (default: system temp dir)" placeholder:"DIR"`
	FeedPath    string         `name:"feed-path" help:"Feed endpoint appended to the host (default: /feed)" placeholder:"PATH"`
	Timeout     *time.Duration `help:"HTTP timeout such as 30s; 0 disables it" placeholder:"DURATION"`
	MetricsFile string         `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run" placeholder:"PATH"`
}

func (d *DownloadCmd) Run(g *Global, root *CLI) error {
	path, explicit := root.configPath()
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	if err := d.apply(cfg); err != nil {
		return err
	}
	logger := root.configureLogging(g.stderr(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		promRecorder = metrics.NewPrometheusRecorder(nil)
		recorder = promRecorder
	}

	res, runErr := d.orchestrator(g, cfg).WithRecorder(recorder).Run(ctx, d.Source, d.OutputDir)

	if promRecorder != nil {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, promRecorder.Registry()); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.File(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(g.stdout(), res)
	return nil
}

// apply layers command-line flags over the loaded configuration.
func (d *DownloadCmd) apply(cfg *config.Config) error {
	if d.FrontMatter {
		cfg.Output.FrontMatter = true
	}
	if d.Strict {
		cfg.Build.Policy = config.BuildPolicyStrict
	}
	if d.Root != "" {
		cfg.Output.Root = d.Root
	}
	if d.FeedPath != "" {
		cfg.Feed.Path = d.FeedPath
	}
	if d.MetricsFile != "" {
		cfg.Metrics.Textfile = d.MetricsFile
	}
	if d.Timeout != nil {
		if *d.Timeout < 0 {
			return sderrors.InvalidInputError(fmt.Sprintf("invalid --timeout %s", *d.Timeout)).Build()
		}
		cfg.Feed.Timeout = *d.Timeout
	}
	return nil
}

func (d *DownloadCmd) orchestrator(g *Global, cfg *config.Config) *pipeline.Orchestrator {
	var fetcher feed.Fetcher = feed.NewHTTPFetcher(cfg.Feed.Timeout, cfg.Feed.UserAgent)
	if g != nil && g.Fetcher != nil {
		fetcher = g.Fetcher
	}

	var confirmer prompt.Confirmer
	switch {
	case d.Yes:
		confirmer = prompt.AssumeYes{}
	case g != nil && g.Confirmer != nil:
		confirmer = g.Confirmer
	default:
		confirmer = prompt.NewTerminalConfirmer()
	}

	policy := post.SkipInvalid
	if cfg.Build.Policy == config.BuildPolicyStrict {
		policy = post.FailFast
	}

	builder := post.NewBuilder(convert.NewMarkdownConverter(), post.WithFrontMatter(cfg.Output.FrontMatter))
	w := writer.New(workspace.NewManager(cfg.Output.Root))
	return pipeline.New(fetcher, builder, w, confirmer, pipeline.Options{
		FeedPath: cfg.Feed.Path,
		Policy:   policy,
		DryRun:   d.DryRun,
	})
}

func printSummary(w io.Writer, res *pipeline.Result) {
	if res.Planned != nil {
		_, _ = fmt.Fprintf(w, "Dry run: would save %d posts in %s\n", len(res.Planned), res.OutputDir)
		for _, name := range res.Planned {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	} else {
		_, _ = fmt.Fprintf(w, "Completed: Successfully saved %d posts in %s\n", res.Report.Written, res.OutputDir)
	}
	if n := len(res.Collisions); n > 0 {
		_, _ = fmt.Fprintf(w, "Overwrote %d file names shared by several entries:\n", n)
		for _, name := range res.Collisions {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if n := len(res.Rejected); n > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d invalid entries:\n", n)
		for _, r := range res.Rejected {
			_, _ = fmt.Fprintf(w, "  #%d %s [%s]\n", r.Index, r.Link, r.Kind())
		}
	}
}
