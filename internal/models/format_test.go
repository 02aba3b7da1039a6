package models

import "testing"

func TestExtractYear(t *testing.T) {
	tests := map[string]string{
		"2010-07-16": "2010",
		"1999":       "1999",
		"":           "",
	}
	for input, want := range tests {
		if got := ExtractYear(input); got != want {
			t.Errorf("ExtractYear(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2010-07-16", "July 16, 2010"},
		{"1999-01-01", "January 1, 1999"},
		{"", "Unknown"},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.input); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{148, "2h 28m"},
		{120, "2h 0m"},
		{45, "45m"},
		{0, "Unknown"},
		{-3, "Unknown"},
	}
	for _, tt := range tests {
		if got := FormatRuntime(tt.minutes); got != tt.want {
			t.Errorf("FormatRuntime(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{160000000, "160,000,000"},
		{999, "999"},
		{1000, "1,000"},
		{0, "Unknown"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 10); got != "short" {
		t.Errorf("Expected text under the limit to be unchanged, got %q", got)
	}
	if got := TruncateText("hello world again", 6); got != "hello..." {
		t.Errorf("Expected trailing space trimmed before ellipsis, got %q", got)
	}
	if got := TruncateText("", 10); got != "" {
		t.Errorf("Expected empty text to stay empty, got %q", got)
	}

	long := make([]rune, 200)
	for i := range long {
		long[i] = 'é'
	}
	got := TruncateText(string(long), 0)
	if len([]rune(got)) != DefaultTruncateLength+3 {
		t.Errorf("Expected default length truncation on runes, got %d runes", len([]rune(got)))
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name, base, path, size, want string
	}{
		{"default base and size", "", "/abc.jpg", "", "https://image.tmdb.org/t/p/original/abc.jpg"},
		{"explicit size", DefaultImageBaseURL, "/abc.jpg", "w500", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"custom base without slash", "https://cdn.example.com/img", "/x.png", "w92", "https://cdn.example.com/img/w92/x.png"},
		{"empty path", DefaultImageBaseURL, "", "w500", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(tt.base, tt.path, tt.size); got != tt.want {
				t.Errorf("ImageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidImageURL(t *testing.T) {
	if !IsValidImageURL("https://image.tmdb.org/t/p/w500/abc.jpg") {
		t.Error("Expected CDN URL to be valid")
	}
	if IsValidImageURL("https://example.com/abc.jpg") || IsValidImageURL("") {
		t.Error("Expected non-CDN and empty URLs to be invalid")
	}
}

func TestYouTubeEmbedURL(t *testing.T) {
	if got := YouTubeEmbedURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("YouTubeEmbedURL() = %q", got)
	}
}
