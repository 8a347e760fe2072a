// Package fetch implements the platform price fetchers. Each fetcher
// retrieves a product page over HTTP and extracts the display name and raw
// price text with goquery; nothing here normalizes prices.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maheshd/pricely/internal/domain"
	"go.uber.org/zap"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0"

type Client struct {
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

func NewClient(timeout time.Duration, userAgent string, logger *zap.Logger) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

func (c *Client) document(ctx context.Context, url string) (*goquery.Document, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	start := time.Now()
	response, err := c.http.Do(request)
	if err != nil {
		c.logger.Warn("product page request failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"product page fetched",
		zap.String("url", url),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("product page: status %d", response.StatusCode)
	}

	return goquery.NewDocumentFromReader(response.Body)
}

// Selector resolves the fetcher for a product's stored platform. The set of
// platforms is closed; adding one means adding a fetcher here.
type Selector struct {
	fetchers map[domain.Platform]domain.PriceFetcher
}

func NewSelector(client *Client) *Selector {
	return &Selector{
		fetchers: map[domain.Platform]domain.PriceFetcher{
			domain.PlatformAmazon:   NewAmazonFetcher(client),
			domain.PlatformFlipkart: NewFlipkartFetcher(client),
		},
	}
}

func (s *Selector) ForPlatform(platform domain.Platform) (domain.PriceFetcher, bool) {
	fetcher, ok := s.fetchers[platform]
	return fetcher, ok
}
