// Package pipeline orchestrates one recording-to-analysis run: upload the
// audio, create and poll the transcription job, normalize and format the
// transcript, summarize it, and assemble the final result.
package pipeline

import (
	"context"
	"fmt"

	"github.com/kl2321/FYP2025Kath-sub000/internal/analysis"
	"github.com/kl2321/FYP2025Kath-sub000/internal/config"
	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/logger"
	"github.com/kl2321/FYP2025Kath-sub000/internal/poller"
	"github.com/kl2321/FYP2025Kath-sub000/internal/summarizer"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcript"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcription"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// SessionMeta carries the per-run knobs the caller chose.
type SessionMeta struct {
	SessionID string

	// LongRecording selects the extended poll budget.
	LongRecording bool

	// Style selects the transcript rendering passed to the model.
	Style transcript.Style
}

type Pipeline struct {
	provider   transcription.Provider
	summarizer summarizer.Client
	cfg        *config.Config
}

func New(provider transcription.Provider, sum summarizer.Client, cfg *config.Config) *Pipeline {
	return &Pipeline{provider: provider, summarizer: sum, cfg: cfg}
}

// Run executes the full pipeline for one recording. It returns either a
// complete AnalysisResult or one typed error; a failure in any stage aborts
// the remaining stages, and no partial result is ever handed back.
//
// The one deliberate soft spot: when the summarization call itself fails,
// the run degrades to a result with empty structured fields instead of
// aborting, unless SummaryFailHard is set. Both recording lengths take the
// same path.
func (p *Pipeline) Run(ctx context.Context, audio []byte, meta SessionMeta) (*types.AnalysisResult, error) {
	log := logger.New().WithSession(meta.SessionID).WithField("module", "pipeline")

	sourceRef, err := p.provider.SubmitAudio(ctx, audio)
	if err != nil {
		return nil, stageError(pferrors.ErrUploadFailed, err)
	}
	log.WithField("source_ref", sourceRef).Info("audio uploaded")

	jobID, err := p.provider.CreateJob(ctx, sourceRef, transcription.JobOptions{
		SpeakerLabels: true,
		Punctuate:     true,
	})
	if err != nil {
		return nil, stageError(pferrors.ErrTranscriptionFailed, err)
	}
	log.WithField("job_id", jobID).Info("transcription job created")

	budget := p.cfg.Budget(meta.LongRecording)
	result, err := poller.Poll(ctx, jobID, p.provider.GetStatus, poller.Options{
		Interval:    budget.Interval,
		MaxAttempts: budget.MaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	normalized := transcript.Normalize(result.Utterances)
	text := transcript.Format(normalized, result.FullText, meta.Style)
	log.WithField("utterances", len(normalized)).Info("transcript ready")

	raw, err := p.summarizer.Summarize(ctx, summarizer.BuildPrompt(text))
	if err != nil {
		if p.cfg.SummaryFailHard {
			return nil, stageError(pferrors.ErrSummarizationFailed, err)
		}
		log.WithError(err).Warn("summarization failed, degrading to empty analysis")
		raw = ""
	}

	parsed := analysis.Parse(raw)

	return assemble(text, normalized, result, parsed), nil
}

func assemble(text string, normalized []types.NormalizedUtterance, tr *types.TranscriptResult, parsed analysis.StructuredAnalysis) *types.AnalysisResult {
	return &types.AnalysisResult{
		FullTranscript: text,
		Summary:        parsed.Summary,
		Decisions:      parsed.Decisions,
		Actions:        parsed.Actions,
		Explicit:       parsed.Explicit,
		Tacit:          parsed.Tacit,
		Reasoning:      parsed.Reasoning,
		Suggestions:    parsed.Suggestions,
		Metadata: types.Metadata{
			DurationSec:  tr.DurationSec,
			SpeakerCount: len(transcript.Labels(normalized)),
			WordCount:    len(tr.Words),
			Confidence:   tr.Confidence,
		},
	}
}

// stageError wraps provider detail under the stage's sentinel unless the
// detail already carries it, which keeps errors.Is matching single-level.
func stageError(sentinel error, err error) error {
	if pferrors.IsUploadFailed(err) || pferrors.IsTranscriptionFailed(err) ||
		pferrors.IsPollTimeout(err) || pferrors.IsSummarizationFailed(err) ||
		pferrors.IsCancelled(err) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
