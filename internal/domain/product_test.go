package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
		ok   bool
	}{
		{"https://www.amazon.in/dp/B0TEST", PlatformAmazon, true},
		{"https://amzn.to/3abc", PlatformAmazon, true},
		{"https://www.flipkart.com/item/p/itm1", PlatformFlipkart, true},
		{"https://fkrt.it/xyz", PlatformFlipkart, true},
		{"https://www.ebay.com/itm/1", "", false},
		{"not a url", "", false},
	}
	for _, tc := range cases {
		got, ok := DetectPlatform(tc.url)
		assert.Equal(t, tc.ok, ok, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}
}

func TestNewPriceUpdateTightensBounds(t *testing.T) {
	product := Product{
		Price:         decimal.NewFromInt(100),
		PreviousPrice: decimal.NewFromInt(100),
		Lower:         decimal.NewFromInt(90),
		Upper:         decimal.NewFromInt(110),
	}

	update := NewPriceUpdate(product, decimal.NewFromInt(80))
	assert.True(t, update.Lower.Equal(decimal.NewFromInt(80)))
	assert.True(t, update.Upper.Equal(decimal.NewFromInt(110)))
	assert.True(t, update.PreviousPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, update.ExpectedPrice.Equal(decimal.NewFromInt(100)))

	update = NewPriceUpdate(product, decimal.NewFromInt(120))
	assert.True(t, update.Lower.Equal(decimal.NewFromInt(90)))
	assert.True(t, update.Upper.Equal(decimal.NewFromInt(120)))
}

func TestPercentChangeBetween(t *testing.T) {
	change := PercentChangeBetween(decimal.NewFromInt(100), decimal.NewFromInt(90))
	require.NotNil(t, change)
	assert.True(t, change.Equal(decimal.NewFromInt(-10)))

	assert.Nil(t, PercentChangeBetween(decimal.Zero, decimal.NewFromInt(50)))
}
