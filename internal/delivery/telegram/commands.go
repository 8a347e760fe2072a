package telegram

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

const HelpText = `Commands:
/start - register
/help - show this help
/my_trackings - list the products you track
/product <id> - details for one tracking
/stop <id> - stop tracking a product

To start tracking, just send me an Amazon or Flipkart product link.
I check prices every hour and message you when one changes.
`

var ErrInvalidArguments = errors.New("invalid arguments")

var urlPattern = regexp.MustCompile(`https?://\S+`)

// ExtractURLs pulls every http(s) link out of a message.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

func ParseTrackingID(args string) (uint, error) {
	idStr := strings.TrimSpace(args)
	if idStr == "" {
		return 0, ErrInvalidArguments
	}
	value, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidArguments
	}
	return uint(value), nil
}

func ParseBroadcastText(args string) (string, error) {
	text := strings.TrimSpace(args)
	if text == "" {
		return "", ErrInvalidArguments
	}
	return text, nil
}
