// Package verify probes citation URLs for accessibility. Verification is
// best-effort and failure-tolerant: it annotates sources, never drops them,
// and never blocks brief generation.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"sectorbrief/internal/model"
	"sectorbrief/internal/util"
)

// Verifier checks citation URLs concurrently with a bounded worker count.
type Verifier struct {
	httpClient *http.Client
	robots     *robotsChecker
	maxWorkers int
	userAgent  string
	logger     *zap.Logger
}

// New creates a Verifier.
func New(cfg model.VerifyConfig, httpCfg model.HTTPConfig, logger *zap.Logger) *Verifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.ProxyFunc(httpCfg),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Verifier{
		httpClient: client,
		robots:     newRobotsChecker(httpCfg.UserAgent, timeout),
		maxWorkers: maxWorkers,
		userAgent:  httpCfg.UserAgent,
		logger:     logger,
	}
}

// Verify probes each source URL and sets Accessible on those that answer
// under 400. Hosts whose robots.txt disallows probing are left unannotated.
func (v *Verifier) Verify(ctx context.Context, sources []model.Source) []model.Source {
	if len(sources) == 0 {
		return sources
	}

	out := make([]model.Source, len(sources))
	copy(out, sources)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i := range out {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			out[idx].Accessible = v.probe(ctx, out[idx].URL)
		}(i)
	}
	wg.Wait()

	return out
}

func (v *Verifier) probe(ctx context.Context, rawURL string) bool {
	if !v.robots.isAllowed(ctx, rawURL) {
		v.logger.Debug("citation probe disallowed by robots.txt", zap.String("url", rawURL))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	// Some hosts reject HEAD; try a GET before declaring the source dead.
	if resp.StatusCode == http.StatusMethodNotAllowed {
		return v.probeGet(ctx, rawURL)
	}
	return resp.StatusCode < 400
}

func (v *Verifier) probeGet(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode < 400
}
