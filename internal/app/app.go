// Package app orchestrates one enrichment run: stream the bill-of-lading
// export through normalize → dedupe → enrich → write in a single forward
// pass. No stage materializes the whole dataset.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harborline/vessel-enricher/internal/config"
	"github.com/harborline/vessel-enricher/internal/enrich"
	"github.com/harborline/vessel-enricher/internal/pipeline"
	"github.com/harborline/vessel-enricher/internal/vessel"
)

// Run executes the pipeline and returns the number of enriched rows written.
//
// Known gap: a crash mid-stream leaves a partial output file on disk; it is
// not cleaned up. A run either completes or is killed externally.
func Run(ctx context.Context, cfg config.Config, querier enrich.Querier, logger *log.Logger) (int, error) {
	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	logf := func(format string, args ...any) {
		prefix := make([]any, 0, len(args)+1)
		prefix = append(prefix, runID)
		prefix = append(prefix, args...)
		logger.Printf("run=%s "+format, prefix...)
	}
	runStart := time.Now()

	limit, err := cfg.MaxRows()
	if err != nil {
		return 0, err
	}

	inF, err := os.Open(cfg.Input)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = inF.Close()
	}()

	outPath := cfg.Output
	if outPath == "" {
		outPath = pipeline.OutputFilename(time.Now())
	}
	// Create/truncate fresh on every run; never append to a prior output.
	outF, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = outF.Close()
	}()

	w, err := pipeline.NewWriter(outF)
	if err != nil {
		return 0, err
	}

	logf("run start: input=%s output=%s backend=%s model=%s rowLimit=%s",
		cfg.Input, outPath, cfg.Backend, cfg.Model, cfg.RowLimit)

	engine := enrich.NewEngine(querier, logger)
	deduper := vessel.NewDeduper()
	rowsRead := 0

	err = pipeline.ForEachVesselRow(inF, limit, func(raw map[string]string) error {
		rowsRead++
		id := vessel.FromRow(raw)
		if !deduper.Keep(id) {
			return nil
		}

		logf("lookup start: vessel=%q cargoClass=%q unique=%d rowsRead=%d",
			id.Name, id.CargoClass, deduper.Unique(), rowsRead)
		lookupStart := time.Now()
		res := engine.Enrich(ctx, id)
		logf("lookup done: vessel=%q status=%s imo=%s duration=%s",
			id.Name, res.Status, res.IMONumber, time.Since(lookupStart).Round(time.Millisecond))

		return w.Write(pipeline.FromResult(id, res))
	})
	if err != nil {
		return w.Count(), err
	}

	if err := w.Flush(); err != nil {
		return w.Count(), err
	}
	if err := outF.Close(); err != nil {
		return w.Count(), err
	}

	logf("run complete: rowsRead=%d uniqueVessels=%d rowsWritten=%d output=%s duration=%s",
		rowsRead, deduper.Unique(), w.Count(), outPath, time.Since(runStart).Round(time.Millisecond))
	return w.Count(), nil
}
