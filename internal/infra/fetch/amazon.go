package fetch

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maheshd/pricely/internal/domain"
)

const unknownProductName = "Unknown Product"

type AmazonFetcher struct {
	client *Client
}

func NewAmazonFetcher(client *Client) *AmazonFetcher {
	return &AmazonFetcher{client: client}
}

func (f *AmazonFetcher) Fetch(ctx context.Context, url string) (*domain.Quote, error) {
	doc, err := f.client.document(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseAmazonQuote(doc)
}

func parseAmazonQuote(doc *goquery.Document) (*domain.Quote, error) {
	name := strings.TrimSpace(doc.Find("#productTitle").First().Text())
	if name == "" {
		name = unknownProductName
	}

	whole := strings.TrimSpace(doc.Find("span.a-price-whole").First().Text())
	if whole == "" {
		return nil, domain.ErrPriceNotFound
	}
	// The whole part sometimes carries its own trailing separator.
	whole = strings.TrimRight(whole, ".")

	priceText := whole
	if fraction := strings.TrimSpace(doc.Find("span.a-price-fraction").First().Text()); fraction != "" {
		priceText += "." + fraction
	}

	return &domain.Quote{Name: name, Price: priceText}, nil
}
