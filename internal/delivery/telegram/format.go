package telegram

import (
	"fmt"
	"strings"

	"github.com/maheshd/pricely/internal/domain"
	"github.com/maheshd/pricely/internal/usecase"
)

// FormatPriceChange renders one price-change event as a Markdown message.
func FormatPriceChange(event domain.PriceChangeEvent) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "🎉 Good news! The price of %s has changed.\n", event.ProductName)
	fmt.Fprintf(&builder, " - Previous Price: ₹%s\n", event.PreviousPrice.StringFixed(2))
	fmt.Fprintf(&builder, " - Current Price: ₹%s\n", event.CurrentPrice.StringFixed(2))
	if event.PercentChange != nil {
		fmt.Fprintf(&builder, " - Percentage Change: %s%%\n", event.PercentChange.StringFixed(2))
	}
	fmt.Fprintf(&builder, " - [Check it out here](%s)", event.ProductURL)
	return builder.String()
}

// FormatTrackingList renders the /my_trackings reply.
func FormatTrackingList(trackings []usecase.Tracking) string {
	if len(trackings) == 0 {
		return "No products added yet. Send me a product link to start tracking."
	}

	var builder strings.Builder
	builder.WriteString("Your tracked products:\n\n")
	for i, tracking := range trackings {
		fmt.Fprintf(&builder, "🏷️ Product %d: [%s](%s)\n", i+1, tracking.Product.Name, tracking.Product.URL)
		fmt.Fprintf(&builder, "💰 Current Price: ₹%s\n", tracking.Product.Price.StringFixed(2))
		fmt.Fprintf(&builder, "❌ Use /stop %d to stop tracking\n\n", tracking.Subscription.ID)
	}
	return builder.String()
}

// FormatTrackingDetails renders the /product reply.
func FormatTrackingDetails(tracking usecase.Tracking) string {
	product := tracking.Product
	var builder strings.Builder
	fmt.Fprintf(&builder, "[%s](%s)\n\n", product.Name, product.URL)
	fmt.Fprintf(&builder, "💰 Current Price: ₹%s\n", product.Price.StringFixed(2))
	fmt.Fprintf(&builder, "📉 Lowest Seen: ₹%s\n", product.Lower.StringFixed(2))
	fmt.Fprintf(&builder, "📈 Highest Seen: ₹%s\n", product.Upper.StringFixed(2))
	fmt.Fprintf(&builder, "❌ Use /stop %d to stop tracking", tracking.Subscription.ID)
	return builder.String()
}
