// Package pipeline orchestrates batch extraction: it fans sources out to a
// worker pool, keeps results in source order so batch output is
// deterministic, and assigns thread ids once the whole batch exists.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/mbetts/mailsift/internal/extract"
	"github.com/mbetts/mailsift/internal/parser"
	"github.com/mbetts/mailsift/internal/scanner"
)

// Pipeline runs the extraction engine over a batch of sources.
type Pipeline struct {
	scanner *scanner.Scanner
	engine  *extract.Engine
	logger  *slog.Logger
	workers int
}

// New creates a pipeline. Workers below 1 default to 2x CPUs, which keeps
// the string-heavy extraction work saturated without oversubscribing.
func New(sc *scanner.Scanner, engine *extract.Engine, logger *slog.Logger, workers int) *Pipeline {
	if workers < 1 {
		workers = runtime.NumCPU() * 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{scanner: sc, engine: engine, logger: logger, workers: workers}
}

// Stats accumulates batch diagnostics.
type Stats struct {
	SourceFiles   int
	Sources       int
	FailedFiles   int
	Segments      int
	Records       int
	PseudoRecords int
}

// Result is the outcome of one batch run.
type Result struct {
	Records []extract.EmailRecord
	Stats   Stats
}

// Run processes the given corpus file paths and returns every record the
// batch produced, in deterministic source order. An unreadable or malformed
// file contributes nothing and does not stop the batch. Cancelling the
// context stops work between sources; records already produced remain in
// the result.
func (p *Pipeline) Run(ctx context.Context, paths []string) *Result {
	res := &Result{Stats: Stats{SourceFiles: len(paths)}}

	var sources []scanner.Source
	for _, path := range paths {
		err := p.scanner.EachSource(path, func(src scanner.Source) error {
			sources = append(sources, src)
			return nil
		})
		if err != nil {
			p.logger.Warn("skipping unreadable source file", "path", path, "error", err)
			res.Stats.FailedFiles++
		}
	}
	res.Stats.Sources = len(sources)

	// Each worker writes only its own source's slot, so flattening the
	// slots afterwards yields the same order on every run regardless of
	// worker count.
	type slot struct {
		records []extract.EmailRecord
		nested  extract.NestedResult
	}
	slots := make([]slot, len(sources))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, nested := p.processSource(sources[i])
				slots[i] = slot{records: records, nested: nested}
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case jobs <- i:
		case <-ctx.Done():
			p.logger.Warn("batch cancelled", "remaining", len(sources)-i)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, s := range slots {
		res.Records = append(res.Records, s.records...)
		res.Stats.Segments += s.nested.Segments
		res.Stats.PseudoRecords += s.nested.Pseudo
	}
	res.Stats.Records = len(res.Records)

	extract.AssignThreadIDs(res.Records)

	p.logger.Info("batch complete",
		"source_files", res.Stats.SourceFiles,
		"sources", res.Stats.Sources,
		"failed_files", res.Stats.FailedFiles,
		"segments", res.Stats.Segments,
		"records", res.Stats.Records,
		"pseudo_records", res.Stats.PseudoRecords,
	)
	return res
}

// RunAll scans the configured root and processes everything found.
func (p *Pipeline) RunAll(ctx context.Context) (*Result, error) {
	paths, err := p.scanner.Scan()
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, paths), nil
}

// processSource extracts the top-level record plus every nested record from
// one source. Extraction inside a source is strictly sequential: segment
// order feeds the index-based identifiers.
func (p *Pipeline) processSource(src scanner.Source) ([]extract.EmailRecord, extract.NestedResult) {
	msg := parser.Parse(src.Content)

	top := p.engine.Top(src.ID, extract.RawHeaders{
		From:    msg.From,
		To:      msg.To,
		Cc:      msg.Cc,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Date:    msg.Date,
	}, msg.Body)

	nested := p.engine.Nested(msg.Body, src.ID, msg.Subject)

	records := make([]extract.EmailRecord, 0, 1+len(nested.Records))
	records = append(records, top)
	records = append(records, nested.Records...)
	return records, nested
}
