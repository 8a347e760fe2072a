package fetch

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maheshd/pricely/internal/domain"
)

type FlipkartFetcher struct {
	client *Client
}

func NewFlipkartFetcher(client *Client) *FlipkartFetcher {
	return &FlipkartFetcher{client: client}
}

func (f *FlipkartFetcher) Fetch(ctx context.Context, url string) (*domain.Quote, error) {
	doc, err := f.client.document(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseFlipkartQuote(doc)
}

func parseFlipkartQuote(doc *goquery.Document) (*domain.Quote, error) {
	name := strings.TrimSpace(doc.Find("span.B_NuCI").First().Text())
	if name == "" {
		name = unknownProductName
	}

	priceText := strings.TrimSpace(doc.Find("div._30jeq3._16Jk6d").First().Text())
	if priceText == "" {
		return nil, domain.ErrPriceNotFound
	}

	return &domain.Quote{Name: name, Price: priceText}, nil
}
