// Package transcription is the client for the asynchronous transcription
// provider: upload the audio, create a job, fetch job status. The provider's
// wire format stays inside this package; callers only see domain types.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	pferrors "github.com/kl2321/FYP2025Kath-sub000/internal/errors"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// JobOptions are the provider features requested at job creation.
type JobOptions struct {
	SpeakerLabels bool
	Punctuate     bool
}

// Provider is the transcription collaborator as the pipeline sees it.
type Provider interface {
	// SubmitAudio uploads raw audio bytes and returns an opaque source
	// reference for job creation.
	SubmitAudio(ctx context.Context, audio []byte) (string, error)

	// CreateJob asks the provider to transcribe the uploaded source.
	CreateJob(ctx context.Context, sourceRef string, opts JobOptions) (string, error)

	// GetStatus fetches one snapshot of a job.
	GetStatus(ctx context.Context, jobID string) (types.JobSnapshot, error)
}

// Client talks to an AssemblyAI-style HTTP API.
type Client struct {
	host   string
	apiKey string
}

func NewClient(host, apiKey string) *Client {
	return &Client{host: strings.TrimRight(host, "/"), apiKey: apiKey}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type createJobRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	Punctuate     bool   `json:"punctuate"`
}

type jobResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Text          string            `json:"text"`
	Utterances    []types.Utterance `json:"utterances"`
	Words         []types.Word      `json:"words"`
	AudioDuration float64           `json:"audio_duration"`
	Confidence    float64           `json:"confidence"`
	Error         string            `json:"error"`
}

func (c *Client) SubmitAudio(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("%w: %v", pferrors.ErrUploadFailed, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var resp uploadResponse
	if err := doJSON(req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", pferrors.ErrUploadFailed, err)
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("%w: provider returned no upload url", pferrors.ErrUploadFailed)
	}
	return resp.UploadURL, nil
}

func (c *Client) CreateJob(ctx context.Context, sourceRef string, opts JobOptions) (string, error) {
	payload, _ := json.Marshal(createJobRequest{
		AudioURL:      sourceRef,
		SpeakerLabels: opts.SpeakerLabels,
		Punctuate:     opts.Punctuate,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", pferrors.ErrTranscriptionFailed, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp jobResponse
	if err := doJSON(req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", pferrors.ErrTranscriptionFailed, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", pferrors.ErrTranscriptionFailed, resp.Error)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: provider returned no job id", pferrors.ErrTranscriptionFailed)
	}
	return resp.ID, nil
}

func (c *Client) GetStatus(ctx context.Context, jobID string) (types.JobSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return types.JobSnapshot{}, err
	}
	req.Header.Set("Authorization", c.apiKey)

	var resp jobResponse
	if err := doJSON(req, &resp); err != nil {
		return types.JobSnapshot{}, err
	}
	return resp.toSnapshot(), nil
}

func (r jobResponse) toSnapshot() types.JobSnapshot {
	snap := types.JobSnapshot{
		ID:           r.ID,
		Status:       mapStatus(r.Status),
		ErrorMessage: r.Error,
	}
	if snap.Status == types.JobCompleted {
		snap.Result = &types.TranscriptResult{
			Utterances:  r.Utterances,
			FullText:    r.Text,
			Words:       r.Words,
			DurationSec: r.AudioDuration,
			Confidence:  r.Confidence,
		}
	}
	return snap
}

func mapStatus(s string) types.JobStatus {
	switch strings.ToLower(s) {
	case "queued":
		return types.JobQueued
	case "completed":
		return types.JobCompleted
	case "error", "failed":
		return types.JobError
	default:
		return types.JobProcessing
	}
}

// doJSON executes an HTTP request and decodes the JSON body, retrying
// transport and 5xx failures with exponential backoff.
func doJSON(req *http.Request, target interface{}) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	var lastErr error
	op := func() error {
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("request rejected: %s", string(body))
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return lastErr
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, req.Context())); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
