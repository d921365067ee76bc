package simload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTP status code constants.
const (
	statusOK       = 200
	statusCreated  = 201
	statusAccepted = 202
)

const workerChannelMultiplier = 2

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// postAndDecode posts a payload and decodes the response into out when the
// status matches.
func postAndDecode(ctx context.Context, client *HTTPClient, url string, body, out interface{}, wantStatus int) error {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// getAndDecode fetches a URL and decodes the JSON response into out.
func getAndDecode(ctx context.Context, client *HTTPClient, url string, out interface{}) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, out)
}

// forEachConcurrent runs fn over n indices with the configured worker count,
// reporting progress once a second.
func forEachConcurrent(ctx context.Context, config *Config, label string, n int, fn func(ctx context.Context, i int) error) (succeeded, failed int64) {
	indexChan := make(chan int, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	var done, errs int64
	var lastReport time.Time
	reportInterval := 1 * time.Second

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := fn(ctx, i); err != nil {
					atomic.AddInt64(&errs, 1)
					if config.Verbose {
						log.Printf("%s %d failed: %v", label, i, err)
					}
				} else {
					atomic.AddInt64(&done, 1)
				}

				if time.Since(lastReport) >= reportInterval {
					lastReport = time.Now()
					log.Printf("%s progress: %d/%d (failed: %d)",
						label, atomic.LoadInt64(&done)+atomic.LoadInt64(&errs), n, atomic.LoadInt64(&errs))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()
	return atomic.LoadInt64(&done), atomic.LoadInt64(&errs)
}
