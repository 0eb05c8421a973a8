package verse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var ErrNoContent = errors.New("content endpoint returned no verse")

// Provider fetches fresh memorization content from the generative content
// endpoint, falling back to the bundled corpus when it is unreachable. The
// caller always gets a verse to practice.
type Provider struct {
	url           string
	apiKey        string
	model         string
	fallbackModel string
	timeout       time.Duration
	retryDelay    time.Duration
	client        *http.Client
}

func NewProvider(url, apiKey, model, fallbackModel string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Provider{
		url:           url,
		apiKey:        apiKey,
		model:         model,
		fallbackModel: fallbackModel,
		timeout:       timeout,
		retryDelay:    time.Second,
		client:        &http.Client{},
	}
}

type contentRequest struct {
	Model   string   `json:"model"`
	Exclude []string `json:"exclude,omitempty"`
}

// Fetch returns a verse whose reference is not in exclude. It tries the
// primary model (one retry), then the fallback model, then the offline corpus.
// The returned verse is never nil; err reports why the result is a fallback.
func (p *Provider) Fetch(ctx context.Context, exclude []string) (*Verse, error) {
	if p.url == "" {
		v := RandomOffline(exclude)
		return &v, nil
	}

	v, err := p.generateWithModel(ctx, p.model, exclude, 1)
	if err == nil {
		return v, nil
	}
	log.Printf("content fetch failed for model %s, trying fallback model: %v", p.model, err)

	if p.fallbackModel != "" {
		v, err = p.generateWithModel(ctx, p.fallbackModel, exclude, 0)
		if err == nil {
			return v, nil
		}
		log.Printf("content fetch failed for fallback model %s: %v", p.fallbackModel, err)
	}

	offline := RandomOffline(exclude)
	return &offline, err
}

func (p *Provider) generateWithModel(ctx context.Context, model string, exclude []string, retries int) (*Verse, error) {
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}

		v, err := p.doRequest(ctx, model, exclude)
		if err == nil {
			return v, nil
		}
		log.Printf("content attempt %d failed for model %s: %v", attempt+1, model, err)
		lastErr = err
	}

	return nil, lastErr
}

func (p *Provider) doRequest(ctx context.Context, model string, exclude []string) (*Verse, error) {
	// Hard per-attempt timeout so the UI never hangs on a loading state.
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(contentRequest{Model: model, Exclude: exclude})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Some models wrap the JSON in markdown fences.
	raw = bytes.TrimSpace(bytes.ReplaceAll(bytes.ReplaceAll(raw, []byte("```json"), nil), []byte("```"), nil))

	var v Verse
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("malformed content response: %w", err)
	}
	if v.Reference == "" || v.Text == "" {
		return nil, ErrNoContent
	}
	return &v, nil
}
