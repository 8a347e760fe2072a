package domain

import (
	"context"
	"errors"
)

var ErrPriceNotFound = errors.New("price not found on page")

// Quote is what a fetcher extracted from a product page. Price is the raw
// scraped value; normalization happens in the caller.
type Quote struct {
	Name  string
	Price string
}

// PriceFetcher reads the current price and display name for one product URL.
// Implementations exist per Platform; a failed scrape is an error, never a
// panic past this boundary.
type PriceFetcher interface {
	Fetch(ctx context.Context, url string) (*Quote, error)
}

// FetcherSelector resolves the fetcher for a stored Platform.
type FetcherSelector interface {
	ForPlatform(platform Platform) (PriceFetcher, bool)
}

// LinkExpander follows redirects on shortened product links.
type LinkExpander interface {
	Expand(ctx context.Context, rawURL string) (string, error)
}

// LinkConverter rewrites a product URL into its affiliate form.
type LinkConverter interface {
	Convert(ctx context.Context, rawURL string) (string, error)
}
