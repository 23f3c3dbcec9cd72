// Package content loads blog posts from Markdown and MDX files with YAML front
// matter and computes the derived fields pages need: slugs, rendered HTML,
// headings and reading time.
package content

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/pubsite/markdown"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// BlogDir is the directory under the content root that holds posts. Every
// post page is served from /blog/<SlugAsParams>/.
const BlogDir = "blog"

// ErrOutsideBlog is returned for content files not inside BlogDir.
var ErrOutsideBlog = errors.New("post is not inside the " + BlogDir + " directory")

// Heading is one entry of a post's table of contents.
type Heading = markdown.Heading

// ReadingTime estimates how long a post takes to read.
type ReadingTime struct {
	Minutes int
	Words   int
	Text    string
}

// Post is a single blog post with all derived fields populated.
type Post struct {
	ID           string
	Title        string
	Date         time.Time
	Description  string
	Tags         []string
	IsSeries     bool
	Thumbnail    string
	Draft        bool
	Slug         string // "/blog/2023/react/hooks"
	SlugAsParams string // "2023/react/hooks"
	Body         string
	HTML         string
	Headings     []Heading
	ReadingTime  ReadingTime
	SourcePath   string
}

// Source provides the posts a site is built from.
type Source interface {
	LoadPosts(ctx context.Context) ([]Post, error)
}

// Segments returns the "/" separated parts of SlugAsParams.
func (p Post) Segments() []string {
	if p.SlugAsParams == "" {
		return nil
	}
	return strings.Split(p.SlugAsParams, "/")
}

// Segment returns the i-th segment of SlugAsParams, or "" if there is none.
func (p Post) Segment(i int) string {
	segs := p.Segments()
	if i < 0 || i >= len(segs) {
		return ""
	}
	return segs[i]
}

// Name is the last segment of SlugAsParams, the key used for lookups by slug.
func (p Post) Name() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Category is the second segment of SlugAsParams ("react" in "2023/react/hooks").
func (p Post) Category() string { return p.Segment(1) }

// DateString formats the date as 2006-01-02.
func (p Post) DateString() string { return p.Date.Format("2006-01-02") }

// ShortDate formats the date as YY.MM.DD, used in post lists.
func (p Post) ShortDate() string { return p.Date.Format("06.01.02") }

// NewPost builds a Post from the raw bytes of the file at path, which must be
// inside root.
func NewPost(root, path string, raw []byte, r *markdown.Renderer) (Post, error) {
	fm, body, err := ParseFrontMatter(raw)
	if err != nil {
		return Post{}, err
	}

	flattened, err := flattenedPath(root, path)
	if err != nil {
		return Post{}, err
	}

	res, err := r.Render(body)
	if err != nil {
		return Post{}, fmt.Errorf("render markdown: %w", err)
	}

	date, err := parseDate(fm.Date)
	if err != nil {
		return Post{}, err
	}

	slugAsParams, ok := strings.CutPrefix(flattened, BlogDir+"/")
	if !ok {
		return Post{}, ErrOutsideBlog
	}

	return Post{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte(flattened)).String(),
		Title:        fm.Title,
		Date:         date,
		Description:  fm.Description,
		Tags:         cleanTags(fm.Tags),
		IsSeries:     fm.IsSeries,
		Thumbnail:    strings.TrimSpace(fm.Thumbnail),
		Draft:        fm.Draft,
		Slug:         "/" + flattened,
		SlugAsParams: slugAsParams,
		Body:         string(body),
		HTML:         res.HTML,
		Headings:     res.Headings,
		ReadingTime:  NewReadingTime(markdown.WordCount(body)),
		SourcePath:   path,
	}, nil
}

// NewReadingTime returns the reading time for a post with the given number of
// words, rounded up to whole minutes with a minimum of one.
func NewReadingTime(words int) ReadingTime {
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return ReadingTime{
		Minutes: minutes,
		Words:   words,
		Text:    fmt.Sprintf("%d min read", minutes),
	}
}

func flattenedPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside %s", path, root)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
