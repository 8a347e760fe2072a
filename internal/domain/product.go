package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Platform selects which fetcher knows how to read a product page.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
)

// DetectPlatform maps a product URL to a Platform by host. The result is
// stored on the Product at creation time; reconciliation never re-infers it.
func DetectPlatform(rawURL string) (Platform, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.Contains(host, "amazon"), strings.Contains(host, "amzn"):
		return PlatformAmazon, true
	case strings.Contains(host, "flipkart"), strings.Contains(host, "fkrt"):
		return PlatformFlipkart, true
	}
	return "", false
}

// Product is one globally tracked item, deduplicated by name across all
// users. Price fields are mutated only by the reconciliation pass; Lower and
// Upper only ever tighten.
type Product struct {
	ID            uint
	Name          string
	URL           string
	Platform      Platform
	Price         decimal.Decimal
	PreviousPrice decimal.Decimal
	Lower         decimal.Decimal
	Upper         decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Changed reports whether the product belongs to the changed set of the most
// recent reconciliation pass.
func (p Product) Changed() bool {
	return !p.Price.Equal(p.PreviousPrice)
}

// PriceUpdate is the atomic record mutation applied when a fresh price
// differs from the stored one. ExpectedPrice is the compare-and-set guard:
// the update must not apply if another writer got there first.
type PriceUpdate struct {
	ExpectedPrice decimal.Decimal
	Price         decimal.Decimal
	PreviousPrice decimal.Decimal
	Lower         decimal.Decimal
	Upper         decimal.Decimal
}

// NewPriceUpdate computes the mutation for a product observed at a new price.
func NewPriceUpdate(p Product, observed decimal.Decimal) PriceUpdate {
	lower := p.Lower
	if observed.LessThan(lower) {
		lower = observed
	}
	upper := p.Upper
	if observed.GreaterThan(upper) {
		upper = observed
	}
	return PriceUpdate{
		ExpectedPrice: p.Price,
		Price:         observed,
		PreviousPrice: p.Price,
		Lower:         lower,
		Upper:         upper,
	}
}
