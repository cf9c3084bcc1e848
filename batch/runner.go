// Package batch converts every document in an input directory into an
// outline file in an output directory, optionally caching records in a
// store, and can keep watching the input directory for new documents.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/format"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/reader"
	"github.com/tsawler/outliner/store"
)

// ErrOutputConflict is reported for an input whose output file is already
// claimed by another input of the same run (a.pdf and a.json).
var ErrOutputConflict = errors.New("output file conflicts with another input")

// Cache stores outline records by content hash and settings fingerprint.
// *store.Store implements it.
type Cache interface {
	FindByHash(ctx context.Context, hash, settings string) (store.Record, error)
	Save(ctx context.Context, rec store.Record) error
}

// Config configures a Runner.
type Config struct {
	InputDir  string
	OutputDir string

	// Workers is the number of documents processed in parallel (default: runtime.NumCPU())
	Workers int

	// Timeout bounds the rendering of one document (default: 60s)
	Timeout time.Duration

	// Format of the output files (default: json)
	Format export.Format

	// Validate checks every record against the output schema before writing
	Validate bool

	// UseCache reuses stored records for inputs whose content hash is known
	UseCache bool

	// RendererName is recorded with stored records and is part of their
	// settings fingerprint
	RendererName string

	// Debounce is how long Watch waits after the last write to a file (default: 500ms)
	Debounce time.Duration
}

// Status is the outcome of processing one file.
type Status int

const (
	StatusCreated Status = iota // Rendered and written
	StatusCached                // Written from a stored record
	StatusSkipped               // Not an input document
	StatusFailed                // Rendering, validation or writing failed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusCached:
		return "cached"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result describes one processed file.
type Result struct {
	Path     string
	Output   string
	Status   Status
	Record   model.OutlineRecord
	Duration time.Duration
}

// FileError pairs a failed input with its error.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Summary counts the outcomes of one run.
type Summary struct {
	RunID     string
	Processed int // Rendered and written
	Cached    int
	Failed    int
	Skipped   int
	Failures  []FileError
	Duration  time.Duration
}

// Total returns the number of inputs seen
func (s Summary) Total() int {
	return s.Processed + s.Cached + s.Failed + s.Skipped
}

func (s *Summary) add(res Result, err error) {
	switch res.Status {
	case StatusCreated:
		s.Processed++
	case StatusCached:
		s.Cached++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
		s.Failures = append(s.Failures, FileError{Path: res.Path, Err: err})
	}
}

// Runner processes directories of documents.
// Renderer handles PDF inputs; stext JSON inputs are always decoded directly.
// Store is optional.
type Runner struct {
	Config   Config
	Renderer reader.Renderer
	Analyzer *layout.Analyzer
	Store    Cache
	Logger   *slog.Logger

	mu       sync.RWMutex
	override *layout.Analyzer
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// UseAnalyzer replaces the analyzer for documents processed after the call.
// It is safe to call while Run or Watch is in progress.
func (r *Runner) UseAnalyzer(a *layout.Analyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = a
}

func (r *Runner) analyzer() *layout.Analyzer {
	r.mu.RLock()
	override := r.override
	r.mu.RUnlock()
	if override != nil {
		return override
	}
	if r.Analyzer == nil {
		return layout.NewAnalyzer()
	}
	return r.Analyzer
}

func (r *Runner) renderer() reader.Renderer {
	if r.Renderer == nil {
		return reader.NewNativeRenderer()
	}
	return r.Renderer
}

func (r *Runner) workers() int {
	if r.Config.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.Config.Workers
}

func (r *Runner) timeout() time.Duration {
	if r.Config.Timeout <= 0 {
		return 60 * time.Second
	}
	return r.Config.Timeout
}

func (r *Runner) format() export.Format {
	if r.Config.Format == "" {
		return export.FormatJSON
	}
	return r.Config.Format
}

// Run processes every document in the input directory. A failing document
// is logged and counted; it never stops the run. The returned error reports
// only problems with the directories themselves or cancellation.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", summary.RunID)

	if err := r.prepare(); err != nil {
		return summary, err
	}

	files, err := r.scan()
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		logger.Info("no documents found", "dir", r.Config.InputDir)
		return summary, nil
	}

	logger.Info("scanning documents", "dir", r.Config.InputDir, "files", len(files), "workers", r.workers())

	files, conflicts := r.claimOutputs(files)
	for _, fe := range conflicts {
		logger.Error("error processing document", "file", filepath.Base(fe.Path), "error", fe.Err)
		summary.add(Result{Path: fe.Path, Output: r.OutputPath(fe.Path), Status: StatusFailed}, fe.Err)
	}

	type outcome struct {
		res Result
		err error
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				res, err := r.process(ctx, logger, path)
				results <- outcome{res: res, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		summary.add(o.res, o.err)
	}

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Path < summary.Failures[j].Path
	})
	summary.Duration = time.Since(start)

	logger.Info("all processing complete",
		"processed", summary.Processed,
		"cached", summary.Cached,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ProcessFile converts a single document and writes its output file.
func (r *Runner) ProcessFile(ctx context.Context, path string) (Result, error) {
	if err := os.MkdirAll(r.Config.OutputDir, 0o755); err != nil {
		return Result{Path: path, Status: StatusFailed}, fmt.Errorf("failed to create output directory: %w", err)
	}
	return r.process(ctx, r.logger(), path)
}

// prepare checks the input directory and creates the output directory
func (r *Runner) prepare() error {
	info, err := os.Stat(r.Config.InputDir)
	if err != nil {
		return fmt.Errorf("input directory %q not found: %w", r.Config.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %q is not a directory", r.Config.InputDir)
	}
	if err := os.MkdirAll(r.Config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// scan lists candidate inputs (non-recursive, sorted by name)
func (r *Runner) scan() ([]string, error) {
	entries, err := os.ReadDir(r.Config.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isCandidate(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(r.Config.InputDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// claimOutputs keeps the first input, in name order, for each output path.
// Later inputs mapping to the same output are returned as conflicts.
// Files that will be skipped claim nothing.
func (r *Runner) claimOutputs(files []string) ([]string, []FileError) {
	owners := make(map[string]string, len(files))
	kept := make([]string, 0, len(files))
	var conflicts []FileError

	for _, path := range files {
		out := r.OutputPath(path)
		if skip, err := r.shouldSkip(path, out); err == nil && skip {
			kept = append(kept, path)
			continue
		}
		if owner, ok := owners[out]; ok {
			conflicts = append(conflicts, FileError{
				Path: path,
				Err:  fmt.Errorf("%w: %s is written for %s", ErrOutputConflict, filepath.Base(out), filepath.Base(owner)),
			})
			continue
		}
		owners[out] = path
		kept = append(kept, path)
	}
	return kept, conflicts
}

// isCandidate reports whether the name has an input extension
func isCandidate(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".json":
		return true
	}
	return false
}

// OutputPath returns the file written for input path
func (r *Runner) OutputPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(r.Config.OutputDir, stem+r.format().Extension())
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, path string) (Result, error) {
	start := time.Now()
	res := Result{Path: path, Output: r.OutputPath(path)}
	logger = logger.With("file", filepath.Base(path))

	skip, err := r.shouldSkip(path, res.Output)
	if err != nil {
		res.Status = StatusFailed
		logger.Error("failed to inspect document", "error", err)
		return res, err
	}
	if skip {
		res.Status = StatusSkipped
		logger.Debug("skipping file")
		return res, nil
	}

	logger.Info("processing document")

	analyzer := r.analyzer()

	var hash, settings string
	cached := false
	if r.Store != nil {
		hash, settings, err = r.cacheKey(path, analyzer)
		if err != nil {
			logger.Warn("failed to hash document", "error", err)
			hash = ""
		} else if r.Config.UseCache {
			rec, err := r.Store.FindByHash(ctx, hash, settings)
			switch {
			case err == nil:
				res.Record = rec.Outline
				cached = true
			case !errors.Is(err, store.ErrNotFound):
				logger.Warn("cache lookup failed", "error", err)
			}
		}
	}

	if !cached {
		res.Record, err = r.extract(ctx, path, analyzer)
		if err != nil {
			res.Status = StatusFailed
			res.Duration = time.Since(start)
			logger.Error("error processing document", "error", err)
			return res, err
		}
	}

	if r.Config.Validate {
		if err := export.Validate(res.Record); err != nil {
			res.Status = StatusFailed
			res.Duration = time.Since(start)
			logger.Error("record failed validation", "error", err)
			return res, err
		}
	}

	if err := writeOutput(res.Output, r.format(), res.Record); err != nil {
		res.Status = StatusFailed
		res.Duration = time.Since(start)
		logger.Error("failed to write output", "error", err)
		return res, err
	}

	if r.Store != nil && hash != "" && !cached {
		rec := store.Record{
			ContentHash: hash,
			Settings:    settings,
			Source:      filepath.Base(path),
			Renderer:    r.Config.RendererName,
			Outline:     res.Record,
		}
		if err := r.Store.Save(ctx, rec); err != nil {
			logger.Warn("failed to store record", "error", err)
		}
	}

	res.Duration = time.Since(start)
	if cached {
		res.Status = StatusCached
		logger.Info("created from cache", "output", filepath.Base(res.Output))
	} else {
		res.Status = StatusCreated
		logger.Info("created", "output", filepath.Base(res.Output),
			"title", res.Record.Title, "headings", len(res.Record.Outline), "duration", res.Duration)
	}
	return res, nil
}

// shouldSkip reports whether path is not an input document. JSON files are
// inputs only when their content is MuPDF stext; this keeps the outline
// files of an earlier run from being read back as inputs.
func (r *Runner) shouldSkip(path, output string) (bool, error) {
	if !isCandidate(path) {
		return true, nil
	}
	if sameFile(path, output) {
		return true, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	detected, err := format.DetectFromReader(f)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return detected != format.StextJSON, nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// cacheSettings is everything besides the input bytes that shapes a record
type cacheSettings struct {
	Renderer string        `json:"renderer"`
	Layout   layout.Config `json:"layout"`
}

// cacheKey returns the content hash of path and the fingerprint of the
// settings the record is produced with
func (r *Runner) cacheKey(path string, analyzer *layout.Analyzer) (hash, settings string, err error) {
	hash, err = store.HashFile(path)
	if err != nil {
		return "", "", err
	}
	settings, err = store.Fingerprint(cacheSettings{Renderer: r.Config.RendererName, Layout: analyzer.Config()})
	if err != nil {
		return "", "", err
	}
	return hash, settings, nil
}

// extract renders path under the per-document timeout and analyzes it
func (r *Runner) extract(ctx context.Context, path string, analyzer *layout.Analyzer) (model.OutlineRecord, error) {
	fileCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	doc, err := reader.Dispatch(r.renderer()).Render(fileCtx, path)
	if err != nil {
		return model.OutlineRecord{}, err
	}
	return analyzer.Outline(doc), nil
}

// writeOutput writes the record through a temporary file so that a failed
// write never leaves a truncated output behind
func writeOutput(path string, f export.Format, record model.OutlineRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.Write(tmp, f, record); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
