package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"snipai/internal/llm"
	"snipai/internal/prompt"
	"snipai/internal/record"
	"snipai/internal/render"
)

// CredentialProvider yields a usable AI credential, or an error when none
// can be obtained. Passed in at construction; the pipeline never reads
// credentials from ambient state.
type CredentialProvider interface {
	APIKey() (string, error)
}

// Generator is the external AI backend: ordered multimodal parts in, one
// text response out.
type Generator interface {
	Generate(ctx context.Context, parts []llm.Part) (string, error)
}

// Uploader mirrors a finished artifact to remote storage. Its failures are
// logged and swallowed: local success has already been committed.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, path, mime string) (string, error)
}

// Outcome describes a successful run. RemoteID is empty when the remote
// mirror was skipped or failed.
type Outcome struct {
	ArtifactPath string
	MIMEType     string
	RemoteID     string
}

// Orchestrator drives one Ready record through credential acquisition,
// prompt assembly, generation, rendering, persistence and best-effort
// upload.
type Orchestrator struct {
	Store        *record.Store
	Assembler    *prompt.Assembler
	Credentials  CredentialProvider
	NewGenerator func(apiKey string) (Generator, error)
	Uploader     Uploader
	Timeout      time.Duration
	Log          *slog.Logger
}

// Run executes the pipeline for one record. On failure the persisted record
// is untouched: it stays "ready" and a later attempt re-runs from scratch.
func (o *Orchestrator) Run(ctx context.Context, rec record.RunRecord) (Outcome, error) {
	log := o.logger().With("run_id", rec.RunID)

	if len(rec.Captures) == 0 {
		return Outcome{}, failure(KindInput, errors.New("run has no captures"))
	}
	if !record.ValidFormat(rec.DocFormat) {
		return Outcome{}, failure(KindInput, errors.New("unknown document format: "+rec.DocFormat))
	}

	key, err := o.Credentials.APIKey()
	if err != nil {
		return Outcome{}, failure(KindConfig, err)
	}
	gen, err := o.NewGenerator(key)
	if err != nil {
		return Outcome{}, failure(KindConfig, err)
	}

	parts, err := o.Assembler.Assemble(rec)
	if err != nil {
		return Outcome{}, failure(KindConfig, err)
	}

	genCtx := ctx
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	log.Info("generating", "format", rec.DocFormat, "captures", len(rec.Captures))
	aiText, err := gen.Generate(genCtx, parts)
	if err != nil {
		switch {
		case llm.IsLikelyQuotaError(err):
			log.Warn("generation rejected by provider quota", "error", err)
		case llm.IsLikelyAuthError(err):
			log.Warn("generation rejected by provider auth", "error", err)
		}
		return Outcome{}, failure(KindGeneration, err)
	}

	renderer, err := render.ForFormat(rec.DocFormat)
	if err != nil {
		return Outcome{}, failure(KindRender, err)
	}
	artifact, err := renderer.Render(rec.Purpose, aiText, o.Store.OutputsDir(rec.RunID), rec.OutputBasename)
	if err != nil {
		return Outcome{}, failure(KindRender, err)
	}

	rec.Status = record.StatusDone
	rec.OutputFile = filepath.Base(artifact)
	if err := o.Store.Save(rec); err != nil {
		return Outcome{}, failure(KindStore, err)
	}
	log.Info("run done", "artifact", artifact)

	out := Outcome{ArtifactPath: artifact, MIMEType: renderer.MIME()}

	// Post-commit hook: the run already succeeded, a sync failure cannot
	// undo it.
	if o.Uploader != nil && o.Uploader.Enabled() {
		remoteID, err := o.Uploader.Upload(ctx, artifact, renderer.MIME())
		if err != nil {
			log.Warn("remote mirror failed", "error", err)
		} else {
			log.Info("remote mirror stored", "remote_id", remoteID)
			out.RemoteID = remoteID
		}
	}

	return out, nil
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Log != nil {
		return o.Log
	}
	return slog.Default()
}
