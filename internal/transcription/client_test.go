package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

func TestSubmitAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/upload", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	ref, err := c.SubmitAudio(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/abc", ref)
}

func TestSubmitAudioRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	_, err := c.SubmitAudio(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.True(t, pferrors.IsUploadFailed(err))
}

func TestCreateJobSendsOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/transcript", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn.example/abc", body["audio_url"])
		assert.Equal(t, true, body["speaker_labels"])
		assert.Equal(t, true, body["punctuate"])
		json.NewEncoder(w).Encode(map[string]string{"id": "job-9", "status": "queued"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	id, err := c.CreateJob(context.Background(), "https://cdn.example/abc", JobOptions{SpeakerLabels: true, Punctuate: true})
	require.NoError(t, err)
	assert.Equal(t, "job-9", id)
}

func TestCreateJobProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "unsupported format"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	_, err := c.CreateJob(context.Background(), "ref", JobOptions{})
	require.Error(t, err)
	assert.True(t, pferrors.IsTranscriptionFailed(err))
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestGetStatusCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/transcript/job-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "job-9",
			"status": "completed",
			"text":   "hello there",
			"utterances": []map[string]interface{}{
				{"speaker": 2, "start": 0, "end": 1200, "text": "hello"},
				{"speaker": "B", "start": 1300, "end": 2000, "text": "there"},
			},
			"words":          []map[string]interface{}{{"text": "hello", "start": 0, "end": 400}},
			"audio_duration": 2.0,
			"confidence":     0.91,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	snap, err := c.GetStatus(context.Background(), "job-9")
	require.NoError(t, err)
	assert.Equal(t, types.JobCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	require.Len(t, snap.Result.Utterances, 2)
	assert.Equal(t, types.SpeakerID("2"), snap.Result.Utterances[0].Speaker)
	assert.Equal(t, types.SpeakerID("B"), snap.Result.Utterances[1].Speaker)
	assert.Equal(t, 0.91, snap.Result.Confidence)
}

func TestGetStatusMapsStates(t *testing.T) {
	cases := map[string]types.JobStatus{
		"queued":     types.JobQueued,
		"processing": types.JobProcessing,
		"completed":  types.JobCompleted,
		"error":      types.JobError,
		"failed":     types.JobError,
		"anything":   types.JobProcessing,
	}
	for wire, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"id": "j", "status": wire, "text": "t"})
		}))
		c := NewClient(srv.URL, "k")
		snap, err := c.GetStatus(context.Background(), "j")
		srv.Close()
		require.NoError(t, err, wire)
		assert.Equal(t, want, snap.Status, wire)
	}
}

func TestMockProviderCompletes(t *testing.T) {
	m := NewMockProvider()
	ref, err := m.SubmitAudio(context.Background(), []byte("abc"))
	require.NoError(t, err)
	id, err := m.CreateJob(context.Background(), ref, JobOptions{SpeakerLabels: true})
	require.NoError(t, err)

	snap, err := m.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.JobProcessing, snap.Status)

	snap, err = m.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.JobCompleted, snap.Status)
	require.NotNil(t, snap.Result)
	assert.NotEmpty(t, snap.Result.Utterances)
	assert.NotEmpty(t, snap.Result.Words)
}
