package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultImageBaseURL is the metadata provider's image CDN
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

	// DefaultTruncateLength is used by TruncateText when no positive length is given
	DefaultTruncateLength = 150

	unknown = "Unknown"
)

var numberPrinter = message.NewPrinter(language.AmericanEnglish)

// ExtractYear returns the year part of a YYYY-MM-DD date, or "" when empty
func ExtractYear(date string) string {
	if date == "" {
		return ""
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

// FormatDate renders a YYYY-MM-DD date as "January 2, 2006".
// Unparseable dates are returned unchanged.
func FormatDate(date string) string {
	if date == "" {
		return unknown
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatRuntime renders minutes as "2h 5m" or "45m"
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return unknown
	}
	hours, rest := minutes/60, minutes%60
	if hours == 0 {
		return fmt.Sprintf("%dm", rest)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatNumber renders a number with en-US digit grouping (budget, revenue)
func FormatNumber(n int64) string {
	if n == 0 {
		return unknown
	}
	return numberPrinter.Sprintf("%d", n)
}

// TruncateText shortens text to maxLength runes and appends "..."
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

// ImageURL builds the full URL of a poster or backdrop. An empty path yields "".
func ImageURL(baseURL, path, size string) string {
	if path == "" {
		return ""
	}
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if size == "" {
		size = "original"
	}
	return strings.TrimRight(baseURL, "/") + "/" + size + path
}

// IsValidImageURL reports whether url points at the provider's image CDN
func IsValidImageURL(url string) bool {
	return url != "" && strings.HasPrefix(url, DefaultImageBaseURL)
}

// YouTubeEmbedURL returns the embeddable player URL for a YouTube video key
func YouTubeEmbedURL(key string) string {
	return "https://www.youtube.com/embed/" + key
}
