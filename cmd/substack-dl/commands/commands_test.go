package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/substack-dl/internal/config"
	"git.home.luguber.info/inful/substack-dl/internal/feed"
	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/prompt"
)

type stubFetcher struct {
	entries []feed.RawEntry
	gotURL  string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]feed.RawEntry, error) {
	f.gotURL = url
	return f.entries, nil
}

func sampleEntries() []feed.RawEntry {
	return []feed.RawEntry{
		{
			Title:   "My First Post",
			Link:    "https://example.substack.com/p/my-first-post",
			PubDate: "Mon, 02 Mar 2024 10:00:00 GMT",
			Content: "<h1>Title</h1><p>Hello</p>",
		},
		{
			Title:   "Undated",
			Link:    "https://example.substack.com/p/undated",
			PubDate: "",
			Content: "<p>x</p>",
		},
	}
}

func testCLI(t *testing.T) *CLI {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "substack-dl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  root: "+t.TempDir()+"\n"), 0o600))
	return &CLI{Config: cfgPath}
}

func TestDownload_WritesPostsAndSummary(t *testing.T) {
	root := t.TempDir()
	fetcher := &stubFetcher{entries: sampleEntries()}
	var stdout, stderr bytes.Buffer
	g := &Global{Stdout: &stdout, Stderr: &stderr, Fetcher: fetcher}

	cmd := &DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: root}
	require.NoError(t, cmd.Run(g, testCLI(t)))

	require.Equal(t, "https://example.substack.com/feed", fetcher.gotURL)
	dir := filepath.Join(root, "posts")
	require.Contains(t, stdout.String(), "Completed: Successfully saved 1 posts in "+dir)
	require.Contains(t, stdout.String(), "Skipped 1 invalid entries")
	require.Contains(t, stdout.String(), "[invalid_date]")

	data, err := os.ReadFile(filepath.Join(dir, "03-02-2024-my-first-post.md"))
	require.NoError(t, err)
	require.Equal(t, "# Title\n\nHello", string(data))
}

func TestDownload_StrictFails(t *testing.T) {
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{entries: sampleEntries()}}
	cmd := &DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: t.TempDir(), Strict: true}

	err := cmd.Run(g, testCLI(t))
	require.Error(t, err)
	require.True(t, sderrors.HasCategory(err, sderrors.CategoryInvalidDate))
}

func TestDownload_ExistingDirectoryDeclined(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))
	declined := prompt.ConfirmFunc(func(context.Context, string, bool) (bool, error) { return false, nil })
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{}, Confirmer: declined}

	err := (&DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: root}).Run(g, testCLI(t))
	require.Error(t, err)
	require.Equal(t, 3, sderrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestDownload_YesOverridesConfirmer(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))
	never := prompt.ConfirmFunc(func(context.Context, string, bool) (bool, error) {
		t.Fatal("confirmer must not be called with --yes")
		return false, nil
	})
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{entries: sampleEntries()}, Confirmer: never}

	cmd := &DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: root, Yes: true}
	require.NoError(t, cmd.Run(g, testCLI(t)))
}

func TestDownload_DryRun(t *testing.T) {
	root := t.TempDir()
	var stdout bytes.Buffer
	g := &Global{Stdout: &stdout, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{entries: sampleEntries()}}

	cmd := &DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: root, DryRun: true}
	require.NoError(t, cmd.Run(g, testCLI(t)))
	require.Contains(t, stdout.String(), "Dry run: would save 1 posts")
	require.Contains(t, stdout.String(), "03-02-2024-my-first-post.md")

	_, err := os.Stat(filepath.Join(root, "posts"))
	require.True(t, os.IsNotExist(err))
}

func TestDownload_FrontMatterAndMetrics(t *testing.T) {
	root := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "substack_dl.prom")
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{entries: sampleEntries()}}

	cmd := &DownloadCmd{
		Source:      "example.substack.com",
		OutputDir:   "posts",
		Root:        root,
		FrontMatter: true,
		MetricsFile: metricsFile,
	}
	require.NoError(t, cmd.Run(g, testCLI(t)))

	data, err := os.ReadFile(filepath.Join(root, "posts", "03-02-2024-my-first-post.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "---\n"))
	require.Contains(t, string(data), "slug: my-first-post")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), "substack_dl_posts_written_total 1")
	require.Contains(t, string(prom), `substack_dl_entries_rejected_total{kind="invalid_date"} 1`)
}

func TestDownload_NegativeTimeout(t *testing.T) {
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{}}
	timeout := -time.Second
	err := (&DownloadCmd{Source: "x.example", OutputDir: "posts", Timeout: &timeout}).Run(g, testCLI(t))
	require.True(t, sderrors.HasCategory(err, sderrors.CategoryInvalidInput))
}

func TestDownload_TimeoutFlagOverridesConfig(t *testing.T) {
	cfg := config.Defaults()
	timeout := 5 * time.Second
	require.NoError(t, (&DownloadCmd{Timeout: &timeout}).apply(cfg))
	require.Equal(t, 5*time.Second, cfg.Feed.Timeout)

	cfg = config.Defaults()
	require.NoError(t, (&DownloadCmd{}).apply(cfg))
	require.Equal(t, config.Defaults().Feed.Timeout, cfg.Feed.Timeout)
}

func TestDownload_SummaryListsCollisions(t *testing.T) {
	entry := feed.RawEntry{
		Title:   "Same",
		Link:    "https://example.substack.com/p/same",
		PubDate: "Sat, 02 Mar 2024 10:00:00 GMT",
		Content: "<p>first</p>",
	}
	later := entry
	later.Content = "<p>second</p>"
	var stdout bytes.Buffer
	g := &Global{Stdout: &stdout, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{entries: []feed.RawEntry{entry, later}}}

	require.NoError(t, (&DownloadCmd{Source: "example.substack.com", OutputDir: "posts", Root: t.TempDir()}).Run(g, testCLI(t)))
	require.Contains(t, stdout.String(), "Successfully saved 1 posts")
	require.Contains(t, stdout.String(), "Overwrote 1 file names shared by several entries:")
	require.Contains(t, stdout.String(), "03-02-2024-same.md")
}

func TestDownload_MissingExplicitConfig(t *testing.T) {
	g := &Global{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Fetcher: &stubFetcher{}}
	cli := &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}
	err := (&DownloadCmd{Source: "x.example", OutputDir: "posts"}).Run(g, cli)
	require.True(t, sderrors.HasCategory(err, sderrors.CategoryConfig))
}

func TestInit_WritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "substack-dl.yaml")
	var stdout bytes.Buffer

	require.NoError(t, (&InitCmd{}).Run(&Global{Stdout: &stdout}, &CLI{Config: path}))
	require.Contains(t, stdout.String(), path)

	_, err := config.Load(path, true)
	require.NoError(t, err)

	require.Error(t, (&InitCmd{}).Run(&Global{Stdout: &stdout}, &CLI{Config: path}))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Stdout: &stdout}, &CLI{Config: path}))
}

func TestCLI_ParsesDefaultCommand(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("substack-dl"),
		kong.Vars{"version": "test", "config_file": config.DefaultConfigFile},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"--yes", "--front-matter", "--timeout", "5s", "example.substack.com", "posts"})
	require.NoError(t, err)
	require.Equal(t, "download <source> <output-dir>", ctx.Command())
	require.Equal(t, "example.substack.com", cli.Download.Source)
	require.Equal(t, "posts", cli.Download.OutputDir)
	require.True(t, cli.Download.Yes)
	require.True(t, cli.Download.FrontMatter)
	require.NotNil(t, cli.Download.Timeout)
	require.Equal(t, 5*time.Second, *cli.Download.Timeout)
}

func TestCLI_LogLevel(t *testing.T) {
	cli := &CLI{}
	require.Equal(t, "WARN", cli.logLevel(config.LogLevelWarn).String())
	cli.Verbose = true
	require.Equal(t, "DEBUG", cli.logLevel(config.LogLevelError).String())
}
