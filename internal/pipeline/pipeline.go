package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/substack-dl/internal/feed"
	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/logfields"
	"git.home.luguber.info/inful/substack-dl/internal/metrics"
	"git.home.luguber.info/inful/substack-dl/internal/observability"
	"git.home.luguber.info/inful/substack-dl/internal/post"
	"git.home.luguber.info/inful/substack-dl/internal/prompt"
	"git.home.luguber.info/inful/substack-dl/internal/writer"
)

// Options tune a run.
type Options struct {
	// FeedPath is appended to the resolved host. Empty means feed.DefaultPath.
	FeedPath string

	// Policy decides whether invalid entries are skipped or abort the run.
	Policy post.Policy

	// DryRun stops after building and reports the files that would be written.
	DryRun bool
}

// Result describes a finished run. It is returned for failed runs too.
type Result struct {
	RunID string
	State State
	// Kind is the error category when State is StateFailed.
	Kind sderrors.ErrorCategory

	FeedURL   string
	OutputDir string

	Posts      []post.Post
	Rejected   []post.Rejection
	Collisions []string

	// Planned lists the file names a dry run would write.
	Planned []string
	Report  writer.Report

	Duration time.Duration
}

// runState is owned by a single Run call and passed between stages.
type runState struct {
	feedURL   string
	outputDir string
	entries   []feed.RawEntry
	posts     []post.Post
	rejected  []post.Rejection
	overwrite bool
}

// Orchestrator wires the fetcher, builder, writer and confirmer together.
// It holds no per-run state and may be reused for sequential runs.
type Orchestrator struct {
	fetcher   feed.Fetcher
	builder   *post.Builder
	writer    *writer.Writer
	confirmer prompt.Confirmer
	recorder  metrics.Recorder
	opts      Options
}

// New creates an orchestrator. A nil confirmer declines every overwrite.
func New(fetcher feed.Fetcher, builder *post.Builder, w *writer.Writer, confirmer prompt.Confirmer, opts Options) *Orchestrator {
	if confirmer == nil {
		confirmer = prompt.ConfirmFunc(func(context.Context, string, bool) (bool, error) {
			return false, prompt.ErrUnavailable
		})
	}
	return &Orchestrator{
		fetcher:   fetcher,
		builder:   builder,
		writer:    w,
		confirmer: confirmer,
		recorder:  metrics.NoopRecorder{},
		opts:      opts,
	}
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	o.recorder = r
	return o
}

// Run downloads input's feed into outputDir.
func (o *Orchestrator) Run(ctx context.Context, input, outputDir string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: observability.NewRunID(), State: StateIdle}
	ctx = observability.WithRunID(ctx, res.RunID)
	st := &runState{}

	steps := []struct {
		state State
		fn    func(context.Context, *runState) error
	}{
		{StateResolving, func(ctx context.Context, st *runState) error { return o.resolve(st, input, outputDir) }},
		{StateFetching, o.fetch},
		{StateBuilding, o.build},
	}
	for _, step := range steps {
		if err := o.stage(ctx, res, step.state, st, step.fn); err != nil {
			return o.fail(ctx, res, st, start, err)
		}
	}

	if o.opts.DryRun {
		res.Planned = make([]string, 0, len(st.posts))
		for _, p := range st.posts {
			res.Planned = append(res.Planned, p.Filename())
		}
		return o.finish(ctx, res, st, start), nil
	}

	exists, err := o.writer.Workspace().Exists(st.outputDir)
	if err != nil {
		return o.fail(ctx, res, st, start, err)
	}
	if exists {
		if err := o.stage(ctx, res, StateAwaitingConfirmation, st, o.confirm); err != nil {
			return o.fail(ctx, res, st, start, err)
		}
	}

	if err := o.stage(ctx, res, StateWriting, st, func(ctx context.Context, st *runState) error {
		report, err := o.writer.Write(ctx, st.outputDir, st.posts, st.overwrite)
		res.Report = report
		return err
	}); err != nil {
		return o.fail(ctx, res, st, start, err)
	}

	o.recorder.AddPostsWritten(res.Report.Written)
	return o.finish(ctx, res, st, start), nil
}

func (o *Orchestrator) stage(ctx context.Context, res *Result, state State, st *runState, fn func(context.Context, *runState) error) error {
	if err := ctx.Err(); err != nil {
		return sderrors.CanceledError("run canceled").WithCause(err).
			WithContext("state", state.String()).
			Build()
	}

	res.State = state
	name := state.stageName()
	ctx = observability.WithStage(ctx, name)
	stageStart := time.Now()
	observability.DebugContext(ctx, "Stage started", logfields.State(state.String()))

	err := fn(ctx, st)
	o.recorder.ObserveStageDuration(name, time.Since(stageStart))
	switch {
	case err == nil:
		o.recorder.IncStageResult(name, metrics.ResultSuccess)
	case sderrors.HasCategory(err, sderrors.CategoryCanceled):
		o.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		o.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

func (o *Orchestrator) resolve(st *runState, input, outputDir string) error {
	feedURL, err := feed.Resolve(input, o.opts.FeedPath)
	if err != nil {
		return err
	}
	dir, err := o.writer.Workspace().Resolve(outputDir)
	if err != nil {
		return err
	}
	st.feedURL = feedURL
	st.outputDir = dir
	return nil
}

func (o *Orchestrator) fetch(ctx context.Context, st *runState) error {
	observability.InfoContext(ctx, "Fetching feed", logfields.FeedURL(st.feedURL))
	entries, err := o.fetcher.Fetch(ctx, st.feedURL)
	if err != nil {
		return err
	}
	st.entries = entries
	observability.InfoContext(ctx, "Fetched feed", logfields.Count(len(entries)))
	return nil
}

func (o *Orchestrator) build(ctx context.Context, st *runState) error {
	posts, rejected, err := o.builder.BuildAll(st.entries, o.opts.Policy)
	st.posts = posts
	st.rejected = rejected
	for _, r := range rejected {
		o.recorder.IncEntryRejected(r.Kind())
		observability.WarnContext(ctx, "Skipping invalid entry",
			logfields.Title(r.Title),
			logfields.Category(r.Kind()),
			logfields.Error(r.Err))
	}
	if err != nil {
		o.recorder.IncEntryRejected(string(sderrors.GetCategory(err)))
		return err
	}
	observability.InfoContext(ctx, "Built posts", logfields.Count(len(posts)))
	return nil
}

func (o *Orchestrator) confirm(ctx context.Context, st *runState) error {
	question := fmt.Sprintf("directory %s exists. Do you want to overwrite it?", st.outputDir)
	ok, err := o.confirmer.Confirm(ctx, question, false)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return sderrors.CanceledError("confirmation canceled").WithCause(err).Build()
		}
		observability.WarnContext(ctx, "Confirmation unavailable, keeping existing directory",
			logfields.OutputDir(st.outputDir),
			logfields.Error(err))
		ok = false
	}
	if !ok {
		return sderrors.DirectoryExistsError("overwrite not allowed").
			WithContext("dir", st.outputDir).
			Build()
	}
	st.overwrite = true
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, res *Result, st *runState, start time.Time) *Result {
	o.fill(res, st)
	res.State = StateDone
	res.Duration = time.Since(start)

	o.recorder.IncRunOutcome(metrics.RunOutcomeSuccess)
	o.recorder.ObserveRunDuration(res.Duration)

	for _, name := range res.Collisions {
		observability.WarnContext(ctx, "Several entries share a file name; the last one wins", logfields.File(name))
	}
	observability.InfoContext(ctx, "Run completed",
		logfields.OutputDir(res.OutputDir),
		logfields.Count(len(res.Posts)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res
}

func (o *Orchestrator) fail(ctx context.Context, res *Result, st *runState, start time.Time, err error) (*Result, error) {
	o.fill(res, st)
	failedIn := res.State
	res.State = StateFailed
	res.Kind = sderrors.GetCategory(err)
	res.Duration = time.Since(start)

	outcome := metrics.RunOutcomeFailed
	switch {
	case res.Kind == sderrors.CategoryCanceled:
		outcome = metrics.RunOutcomeCanceled
	case res.Kind == sderrors.CategoryDirectoryExists && failedIn == StateAwaitingConfirmation:
		outcome = metrics.RunOutcomeDeclined
	}
	o.recorder.IncRunOutcome(outcome)
	o.recorder.ObserveRunDuration(res.Duration)

	observability.DebugContext(ctx, "Run failed",
		logfields.State(failedIn.String()),
		logfields.Category(string(res.Kind)),
		logfields.Error(err))
	return res, err
}

func (o *Orchestrator) fill(res *Result, st *runState) {
	res.FeedURL = st.feedURL
	res.OutputDir = st.outputDir
	res.Posts = st.posts
	res.Rejected = st.rejected
	res.Collisions = collisions(st.posts)
}

// collisions returns file names produced by more than one post, in first-seen order.
func collisions(posts []post.Post) []string {
	seen := make(map[string]int, len(posts))
	var dup []string
	for _, p := range posts {
		name := p.Filename()
		seen[name]++
		if seen[name] == 2 {
			dup = append(dup, name)
		}
	}
	return dup
}
