package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kl2321/FYP2025Kath-sub000/internal/config"
	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/summarizer"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcript"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcription"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

type fakeProvider struct {
	submitErr error
	createErr error

	pollsUntilDone int
	polls          int
	result         *types.TranscriptResult
	errorStatus    string
}

func (f *fakeProvider) SubmitAudio(ctx context.Context, audio []byte) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "ref-1", nil
}

func (f *fakeProvider) CreateJob(ctx context.Context, ref string, opts transcription.JobOptions) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "job-1", nil
}

func (f *fakeProvider) GetStatus(ctx context.Context, jobID string) (types.JobSnapshot, error) {
	f.polls++
	if f.errorStatus != "" {
		return types.JobSnapshot{ID: jobID, Status: types.JobError, ErrorMessage: f.errorStatus}, nil
	}
	if f.polls < f.pollsUntilDone {
		return types.JobSnapshot{ID: jobID, Status: types.JobProcessing}, nil
	}
	return types.JobSnapshot{ID: jobID, Status: types.JobCompleted, Result: f.result}, nil
}

type fakeSummarizer struct {
	reply       string
	err         error
	gotMessages []summarizer.Message
}

func (f *fakeSummarizer) Summarize(ctx context.Context, messages []summarizer.Message) (string, error) {
	f.gotMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ShortPoll: config.PollBudget{Interval: time.Millisecond, MaxAttempts: 10},
		LongPoll:  config.PollBudget{Interval: time.Millisecond, MaxAttempts: 50},
	}
}

func threeSpeakerResult() *types.TranscriptResult {
	return &types.TranscriptResult{
		Utterances: []types.Utterance{
			{Speaker: "2", StartMs: 0, EndMs: 1000, Text: "first point"},
			{Speaker: "7", StartMs: 1100, EndMs: 2000, Text: "second point"},
			{Speaker: "2", StartMs: 2100, EndMs: 3000, Text: "third point"},
		},
		FullText:    "first point second point third point",
		Words:       []types.Word{{Text: "first"}, {Text: "point"}, {Text: "second"}, {Text: "point"}, {Text: "third"}, {Text: "point"}},
		DurationSec: 3.0,
		Confidence:  0.88,
	}
}

func TestRunEndToEnd(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 3, result: threeSpeakerResult()}
	sum := &fakeSummarizer{reply: `{"summary":"short sync","decision":["d1"],"actions":["a1"]}`}
	p := New(prov, sum, testConfig())

	res, err := p.Run(context.Background(), []byte("audio"), SessionMeta{SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "A: first point\nB: second point\nA: third point", res.FullTranscript)
	assert.Equal(t, "short sync", res.Summary)
	assert.Equal(t, []string{"d1"}, res.Decisions)
	assert.Equal(t, []string{"a1"}, res.Actions)
	assert.Equal(t, 2, res.Metadata.SpeakerCount)
	assert.Equal(t, 6, res.Metadata.WordCount)
	assert.Equal(t, 3.0, res.Metadata.DurationSec)
	assert.Equal(t, 0.88, res.Metadata.Confidence)
	assert.Equal(t, 3, prov.polls)

	require.Len(t, sum.gotMessages, 2)
	assert.Contains(t, sum.gotMessages[1].Content, "A: first point")
}

func TestRunVerboseStyle(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1, result: threeSpeakerResult()}
	sum := &fakeSummarizer{reply: "{}"}
	p := New(prov, sum, testConfig())

	res, err := p.Run(context.Background(), []byte("audio"), SessionMeta{Style: transcript.StyleVerbose, LongRecording: true})
	require.NoError(t, err)
	assert.Contains(t, res.FullTranscript, "Speaker A: first point\n\nSpeaker B: second point")
}

func TestRunUploadFailure(t *testing.T) {
	prov := &fakeProvider{submitErr: errors.New("connection refused")}
	p := New(prov, &fakeSummarizer{}, testConfig())

	_, err := p.Run(context.Background(), nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsUploadFailed(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunCreateJobFailure(t *testing.T) {
	prov := &fakeProvider{createErr: errors.New("rejected")}
	p := New(prov, &fakeSummarizer{}, testConfig())

	_, err := p.Run(context.Background(), nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsTranscriptionFailed(err))
}

func TestRunTerminalJobError(t *testing.T) {
	prov := &fakeProvider{errorStatus: "audio unreadable"}
	p := New(prov, &fakeSummarizer{}, testConfig())

	_, err := p.Run(context.Background(), nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsTranscriptionFailed(err))
	assert.Contains(t, err.Error(), "audio unreadable")
	assert.Equal(t, 1, prov.polls)
}

func TestRunPollTimeout(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1000, result: threeSpeakerResult()}
	cfg := testConfig()
	cfg.ShortPoll.MaxAttempts = 4
	p := New(prov, &fakeSummarizer{}, cfg)

	_, err := p.Run(context.Background(), nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsPollTimeout(err))
	assert.Equal(t, 4, prov.polls)
}

func TestRunSummarizationFailSoft(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1, result: threeSpeakerResult()}
	sum := &fakeSummarizer{err: errors.New("gateway down")}
	p := New(prov, sum, testConfig())

	res, err := p.Run(context.Background(), nil, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, "", res.Summary)
	assert.Empty(t, res.Decisions)
	assert.Empty(t, res.Actions)
	assert.NotEmpty(t, res.FullTranscript)
	assert.Equal(t, 2, res.Metadata.SpeakerCount)
}

func TestRunSummarizationFailHard(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1, result: threeSpeakerResult()}
	sum := &fakeSummarizer{err: errors.New("gateway down")}
	cfg := testConfig()
	cfg.SummaryFailHard = true
	p := New(prov, sum, cfg)

	_, err := p.Run(context.Background(), nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsSummarizationFailed(err))
}

func TestRunUnstructuredReplyDegrades(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1, result: threeSpeakerResult()}
	sum := &fakeSummarizer{reply: "The meeting went well overall."}
	p := New(prov, sum, testConfig())

	res, err := p.Run(context.Background(), nil, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, "The meeting went well overall.", res.Summary)
	assert.Empty(t, res.Decisions)
}

func TestRunEmptyUtterancesFallsBackToFullText(t *testing.T) {
	prov := &fakeProvider{pollsUntilDone: 1, result: &types.TranscriptResult{
		FullText:    "plain text only",
		DurationSec: 1.0,
	}}
	sum := &fakeSummarizer{reply: "{}"}
	p := New(prov, sum, testConfig())

	res, err := p.Run(context.Background(), nil, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, "plain text only", res.FullTranscript)
	assert.Zero(t, res.Metadata.SpeakerCount)
	assert.Zero(t, res.Metadata.WordCount)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prov := &fakeProvider{pollsUntilDone: 1000, result: threeSpeakerResult()}
	p := New(prov, &fakeSummarizer{}, testConfig())

	_, err := p.Run(ctx, nil, SessionMeta{})
	require.Error(t, err)
	assert.True(t, pferrors.IsCancelled(err))
}
