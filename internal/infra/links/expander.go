// Package links prepares tracking URLs: expanding shortened storefront links
// and converting them to affiliate form.
package links

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Expander struct {
	client *http.Client
	logger *zap.Logger
}

func NewExpander(timeout time.Duration, logger *zap.Logger) *Expander {
	return &Expander{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Expand follows redirects with a HEAD request and returns the final URL.
func (e *Expander) Expand(ctx context.Context, rawURL string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", err
	}

	response, err := e.client.Do(request)
	if err != nil {
		e.logger.Warn("short url expansion failed", zap.String("url", rawURL), zap.Error(err))
		return "", err
	}
	defer response.Body.Close()

	final := response.Request.URL.String()
	if final != rawURL {
		e.logger.Debug("short url expanded", zap.String("from", rawURL), zap.String("to", final))
	}
	return final, nil
}
