package hashing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"go.uber.org/zap"
)

// Fetcher retrieves the binary contents of an asset URL. Network timeouts
// are the fetcher's concern; the hasher only works on bytes in hand.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// ImageHasher computes content digests of image binaries, caching results
// for a bounded interval. Cache keys are the hash of the source URL rather
// than the URL itself, which may exceed storage key-length limits.
type ImageHasher struct {
	fetch   Fetcher
	cache   *digestCache
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewImageHasher(fetch Fetcher, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *ImageHasher {
	return &ImageHasher{
		fetch:   fetch,
		cache:   newDigestCache(ttl),
		logger:  logger.With(zap.String("component", "image_hasher")),
		metrics: m,
	}
}

func (ih *ImageHasher) HashImage(ctx context.Context, url string) (string, error) {
	key := HashString(url)

	if digest, ok := ih.cache.get(key); ok {
		if ih.metrics != nil {
			ih.metrics.DigestCacheHitsTotal.Inc()
		}
		return digest, nil
	}
	if ih.metrics != nil {
		ih.metrics.DigestCacheMissesTotal.Inc()
	}

	data, err := ih.fetch.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}

	digest := Hash(data)
	ih.cache.set(key, digest)

	ih.logger.Debug("Hashed image binary",
		zap.String("url", url),
		zap.Int("size", len(data)))

	return digest, nil
}

func (ih *ImageHasher) Close() {
	ih.cache.stop()
}
