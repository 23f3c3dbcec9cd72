package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontMatter is returned when a file does not start with a "---" block.
	ErrNoFrontMatter = errors.New("missing front matter")
	// ErrUnterminatedFrontMatter is returned when the closing "---" is missing.
	ErrUnterminatedFrontMatter = errors.New("unterminated front matter")
	// ErrCommaInTag is returned for tags containing a comma, which the
	// content index uses as its tag separator.
	ErrCommaInTag = errors.New("front matter: tags must not contain commas")
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// FrontMatter is the YAML header of a post file.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	IsSeries    bool     `yaml:"isSeries"`
	Thumbnail   string   `yaml:"thumbnail"`
	Draft       bool     `yaml:"draft"`
}

// ParseFrontMatter splits raw into its front matter and body and validates the
// required fields.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return FrontMatter{}, nil, ErrNoFrontMatter
	}
	rest := raw[len("---\n"):]

	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		body = rest[len("---\n"):]
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return FrontMatter{}, nil, ErrUnterminatedFrontMatter
			}
			end = len(rest) - len("\n---")
			header, body = rest[:end], nil
		} else {
			header, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	if fm.Title == "" {
		return FrontMatter{}, nil, errors.New("front matter: title is required")
	}
	if strings.TrimSpace(fm.Date) == "" {
		return FrontMatter{}, nil, errors.New("front matter: date is required")
	}
	if _, err := parseDate(fm.Date); err != nil {
		return FrontMatter{}, nil, err
	}
	for _, tag := range fm.Tags {
		if strings.Contains(tag, ",") {
			return FrontMatter{}, nil, fmt.Errorf("%w: %q", ErrCommaInTag, tag)
		}
	}
	return fm, bytes.TrimLeft(body, "\n"), nil
}

// parseDate accepts the layouts in dateLayouts and keeps only the calendar
// date, so posts published on the same day compare equal.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("front matter: invalid date %q", s)
}
