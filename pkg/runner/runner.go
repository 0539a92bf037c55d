package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	"themelab-hq/triton/pkg/autofix"
	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/liquid"
	"themelab-hq/triton/pkg/rules"
	"themelab-hq/triton/pkg/runner/cache"
	"themelab-hq/triton/pkg/schema"
	"themelab-hq/triton/pkg/telemetry/logging"
	"themelab-hq/triton/pkg/telemetry/metrics"
	"themelab-hq/triton/pkg/theme"
	"themelab-hq/triton/pkg/walker"
)

// RuleTimeout is the rule ID under which per-file timeouts are
// reported.
const RuleTimeout = "runner/timeout"

// RuleUnreadable is the rule ID under which file read failures are
// reported.
const RuleUnreadable = "runner/unreadable"

// Options configures a Runner.
type Options struct {
	// Profile is the validation profile. Zero value means Development().
	Profile Profile

	// Registry is the rule table. Nil builds the default registry.
	Registry *rules.Registry

	// Disabled and Overrides are run-level rule adjustments layered on
	// top of the profile (from configuration or flags).
	Disabled  []string
	Overrides map[string]issue.Severity

	// Workers caps concurrent file validation. Zero means one worker
	// per CPU.
	Workers int

	// Cache is the optional result cache.
	Cache cache.Cache

	// Version namespaces cache keys; bump it when rule semantics
	// change.
	Version string

	// Logger and Metrics are optional.
	Logger  *logging.Logger
	Metrics *metrics.Collector
}

// Runner executes validation runs. It is safe for concurrent use; all
// per-run state lives on the stack of Run.
type Runner struct {
	profile Profile
	engine  *rules.Engine
	sel     rules.Selection
	workers int
	cache   cache.Cache
	version string
	log     *logging.Logger
	metrics *metrics.Collector
}

// New creates a Runner from options.
func New(opts Options) *Runner {
	if opts.Profile.Name == "" {
		opts.Profile = Development()
	}
	if opts.Registry == nil {
		opts.Registry = rules.NewRegistry(rules.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	engine := rules.NewEngine(opts.Registry)
	if opts.Metrics != nil {
		engine.Observer = opts.Metrics.RecordRuleDuration
	}

	return &Runner{
		profile: opts.Profile,
		engine:  engine,
		sel:     NewSelection(opts.Profile, opts.Disabled, opts.Overrides),
		workers: opts.Workers,
		cache:   opts.Cache,
		version: opts.Version,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

// Profile returns the runner's profile.
func (r *Runner) Profile() Profile {
	return r.profile
}

// Run validates all files and returns the aggregated report. The
// context cancels the whole run; each file additionally gets its own
// deadline from the profile.
func (r *Runner) Run(ctx context.Context, files []walker.File) (*Report, error) {
	start := time.Now()
	r.metrics.RecordRunStart()
	r.log.Info("run started",
		"profile", r.profile.Name,
		"files", len(files),
		"timeout", r.profile.EffectiveTimeout(),
	)

	report := &Report{
		Profile: r.profile.Name,
		Issues:  issue.NewList(),
	}

	workers := r.workerCount(len(files))
	jobs := make(chan walker.File)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Per-worker buffers keep the merge lock out of the hot
			// path.
			local := issue.NewList()
			var results []FileResult

			for f := range jobs {
				res, issues := r.runFile(ctx, f)
				local.AddAll(issues)
				results = append(results, res)
			}

			mu.Lock()
			report.Issues.AddAll(local)
			report.Files = append(report.Files, results...)
			mu.Unlock()
		}()
	}

	var runErr error
feed:
	for _, f := range files {
		select {
		case jobs <- f:
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}

	elapsed := time.Since(start)
	report.finish(elapsed.Milliseconds())
	r.metrics.RecordRunDuration(elapsed)
	for _, iss := range report.Issues.Issues {
		r.metrics.RecordIssue(iss.Severity.String())
	}
	r.log.Info("run finished",
		"files", report.Summary.FilesScanned,
		"issues", report.Issues.Len(),
		"elapsed_ms", report.Summary.ElapsedMS,
	)
	return report, nil
}

func (r *Runner) workerCount(files int) int {
	n := r.workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > runtime.NumCPU() {
		n = runtime.NumCPU()
	}
	if files > 0 && n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

// runFile validates one file, consulting the cache and enforcing the
// per-file deadline.
func (r *Runner) runFile(ctx context.Context, f walker.File) (FileResult, *issue.List) {
	if f.Err != nil {
		r.metrics.RecordFile()
		r.log.Warn("file unreadable", "path", f.Path, "error", f.Err)
		list := issue.NewList()
		list.Add(issue.Issue{
			Path:     f.Path,
			Rule:     RuleUnreadable,
			Severity: issue.SeverityCritical,
			Message:  fmt.Sprintf("cannot read file: %v", f.Err),
		})
		return FileResult{Path: f.Path, State: StateFailed}, list
	}

	var key string
	if r.cache != nil {
		key = cache.Key(f.Path, f.Source, r.profile.Name, r.version)
		if entry, ok := r.cache.Get(key); ok {
			r.metrics.RecordCacheHit(true)
			list := issue.NewList()
			for _, iss := range entry.Issues {
				list.Add(iss)
			}
			return FileResult{Path: f.Path, State: StateCached}, list
		}
		r.metrics.RecordCacheHit(false)
	}

	fctx, cancel := context.WithTimeout(ctx, r.profile.EffectiveTimeout())
	defer cancel()

	type outcome struct {
		issues *issue.List
	}
	done := make(chan outcome, 1)
	go func() {
		done <- outcome{issues: r.checkFile(fctx, f)}
	}()

	select {
	case out := <-done:
		r.metrics.RecordFile()
		r.log.Debug("file validated", "path", f.Path, "issues", out.issues.Len())
		if r.cache != nil {
			if err := r.cache.Put(key, cache.Entry{Issues: out.issues.Issues}); err != nil {
				r.log.Warn("cache write failed", "path", f.Path, "error", err)
			}
		}
		return FileResult{Path: f.Path, State: StateDone}, out.issues
	case <-fctx.Done():
		r.metrics.RecordFile()
		r.metrics.RecordTimeout()
		r.log.Warn("file validation timed out", "path", f.Path)
		list := issue.NewList()
		list.Add(issue.Issue{
			Path:     f.Path,
			Rule:     RuleTimeout,
			Severity: issue.SeverityWarning,
			Message:  "validation incomplete: timeout",
		})
		return FileResult{Path: f.Path, State: StateTimedOut}, list
	}
}

// checkFile runs the full pipeline for one file.
func (r *Runner) checkFile(ctx context.Context, f walker.File) *issue.List {
	if !theme.IsLiquid(f.Path) {
		return checkJSONFile(f)
	}

	issues := issue.NewList()

	doc := liquid.Scan(f.Path, f.Kind, f.Source)
	issues.AddAll(doc.Issues)
	issues.AddAll(liquid.CheckStructure(doc))

	ruleIssues, _, err := r.engine.Run(ctx, doc, r.sel)
	issues.AddAll(ruleIssues)
	if err != nil {
		// Deadline hit between rules; the timeout path owns reporting.
		return issues
	}

	issues.AddAll(r.checkSchemas(doc))
	return issues
}

func (r *Runner) checkSchemas(doc *liquid.Document) *issue.List {
	issues := issue.NewList()

	if doc.Kind.RequiresSchema() {
		issues.AddAll(schema.CheckPresence(doc.Path, doc.Kind, len(doc.Schemas) > 0))
	}
	if !doc.Kind.HasSchema() {
		return issues
	}

	for _, block := range doc.Schemas {
		body := doc.Source[block.Start:block.End]
		issues.AddAll(schema.Validate(doc.Path, doc.Kind, block.Line, body))

		if parsed, err := schema.Parse(body); err == nil {
			issues.AddAll(schema.CheckUsage(doc.Path, doc.Source, block.Line, parsed))
		}
	}
	return issues
}

// checkJSONFile validates the non-Liquid theme files (templates,
// locales, config) for well-formedness.
func checkJSONFile(f walker.File) *issue.List {
	issues := issue.NewList()
	if !json.Valid([]byte(f.Source)) {
		issues.Add(issue.Issue{
			Path:     f.Path,
			Line:     1,
			Rule:     schema.RuleInvalidJSON,
			Severity: issue.SeverityCritical,
			Message:  fmt.Sprintf("malformed JSON %s file", f.Kind),
		})
	}
	return issues
}

// CollectEdits runs the rule engine over one file and returns its
// auto-fix edits. Used by the fix pipeline.
func (r *Runner) CollectEdits(ctx context.Context, f walker.File) ([]autofix.Edit, error) {
	if !theme.IsLiquid(f.Path) {
		return nil, nil
	}
	doc := liquid.Scan(f.Path, f.Kind, f.Source)
	_, edits, err := r.engine.Run(ctx, doc, r.sel)
	return edits, err
}
