package transcription

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// MockProvider is an offline stand-in selected with USE_MOCK_TRANSCRIBE. It
// completes every job after a couple of status fetches and returns a small
// two-speaker transcript, which keeps demos and local runs independent of
// provider credentials.
type MockProvider struct {
	mu    sync.Mutex
	seq   int
	polls map[string]int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{polls: make(map[string]int)}
}

func (m *MockProvider) SubmitAudio(ctx context.Context, audio []byte) (string, error) {
	return fmt.Sprintf("mock://audio/%d-bytes", len(audio)), nil
}

func (m *MockProvider) CreateJob(ctx context.Context, sourceRef string, opts JobOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("mock-job-%d", m.seq)
	m.polls[id] = 0
	return id, nil
}

func (m *MockProvider) GetStatus(ctx context.Context, jobID string) (types.JobSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[jobID]++
	if m.polls[jobID] < 2 {
		return types.JobSnapshot{ID: jobID, Status: types.JobProcessing}, nil
	}
	return types.JobSnapshot{
		ID:     jobID,
		Status: types.JobCompleted,
		Result: mockTranscript(),
	}, nil
}

func mockTranscript() *types.TranscriptResult {
	utterances := []types.Utterance{
		{Speaker: "1", StartMs: 0, EndMs: 4200, Text: "Let's review the launch checklist before Friday."},
		{Speaker: "2", StartMs: 4400, EndMs: 9100, Text: "The docs are done, I still owe the release notes."},
		{Speaker: "1", StartMs: 9300, EndMs: 12800, Text: "Okay, decision: we ship Friday morning."},
	}
	var words []types.Word
	for _, u := range utterances {
		words = append(words, splitWords(u)...)
	}
	return &types.TranscriptResult{
		Utterances:  utterances,
		FullText:    "Let's review the launch checklist before Friday. The docs are done, I still owe the release notes. Okay, decision: we ship Friday morning.",
		Words:       words,
		DurationSec: 12.8,
		Confidence:  0.93,
	}
}

func splitWords(u types.Utterance) []types.Word {
	var out []types.Word
	start := u.StartMs
	for _, f := range strings.Fields(u.Text) {
		out = append(out, types.Word{Text: f, StartMs: start, EndMs: start + 200})
		start += 250
	}
	return out
}
