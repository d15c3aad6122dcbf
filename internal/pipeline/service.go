package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"snipai/internal/record"
)

// Service is the surface the presentation layer talks to: create a run,
// save it, run it, list recent ones.
type Service struct {
	Store        *record.Store
	Orchestrator *Orchestrator
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateRun builds a Ready record for the given request. The run id is
// derived from the creation time and must not collide with an existing run.
func (s *Service) CreateRun(purpose, docFormat, outputName string, captures []string) (record.RunRecord, error) {
	if strings.TrimSpace(purpose) == "" {
		return record.RunRecord{}, failure(KindInput, errors.New("purpose is required"))
	}
	if !record.ValidFormat(docFormat) {
		return record.RunRecord{}, failure(KindInput, errors.New("unknown document format: "+docFormat))
	}
	now := s.now()
	runID := record.NewRunID(now)
	if _, err := os.Stat(s.Store.RunDir(runID)); err == nil {
		return record.RunRecord{}, failure(KindInput, errors.New("a run created this second already exists: "+runID))
	}
	return record.New(runID, now, purpose, docFormat, outputName, captures), nil
}

// Save persists the record and appends one history line, the same pair of
// writes a "run now" performs before the pipeline starts.
func (s *Service) Save(rec record.RunRecord) error {
	if err := s.Store.Save(rec); err != nil {
		return failure(KindStore, err)
	}
	if err := s.Store.AppendHistory(rec.Snapshot()); err != nil {
		return failure(KindStore, err)
	}
	return nil
}

// Run persists the record, then drives it through the pipeline. A record
// with no captures is rejected before anything is written.
func (s *Service) Run(ctx context.Context, rec record.RunRecord) (Outcome, error) {
	if len(rec.Captures) == 0 {
		return Outcome{}, failure(KindInput, errors.New("run has no captures"))
	}
	if err := s.Save(rec); err != nil {
		return Outcome{}, err
	}
	return s.Orchestrator.Run(ctx, rec)
}

// RecentRuns lists up to limit records, newest first.
func (s *Service) RecentRuns(limit int) ([]record.RunRecord, error) {
	out, err := s.Store.LoadRecent(limit)
	if err != nil {
		return nil, failure(KindStore, err)
	}
	return out, nil
}
