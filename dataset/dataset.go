// Package dataset answers the queries blog pages make over the loaded posts:
// ordering by date, filtering by year, tag and series, and navigation between
// neighbouring posts.
//
// A Dataset is immutable once built and safe for concurrent use. Slices it
// returns are copies, so callers may modify them.
package dataset

import (
	"cmp"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pubsite/content"
)

// RecentCount is the number of posts Recent returns.
const RecentCount = 4

// TagCount is a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Dataset is an ordered, read-only collection of posts.
type Dataset struct {
	posts  []content.Post // newest first
	series []content.Post
	years  []string
	tags   []string
}

// New sorts posts newest first by calendar date and precomputes the derived
// lists. The sort is stable: posts from the same day keep their input order.
func New(posts []content.Post) *Dataset {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b content.Post) int {
		return dateOnly(b.Date).Compare(dateOnly(a.Date))
	})

	d := &Dataset{posts: sorted}

	yearSeen := make(map[string]struct{})
	tagSeen := make(map[string]struct{})
	for _, p := range sorted {
		if p.IsSeries {
			d.series = append(d.series, p)
		}
		if y := p.Segment(0); isYear(y) {
			if _, ok := yearSeen[y]; !ok {
				yearSeen[y] = struct{}{}
				d.years = append(d.years, y)
			}
		}
		for _, t := range p.Tags {
			if _, ok := tagSeen[t]; !ok {
				tagSeen[t] = struct{}{}
				d.tags = append(d.tags, t)
			}
		}
	}
	return d
}

// isYear reports whether s parses as a finite, nonzero number.
func isYear(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n != 0 && !math.IsNaN(n) && !math.IsInf(n, 0)
}

// dateOnly drops the time of day, so posts from the same day compare equal.
func dateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Len returns the number of posts.
func (d *Dataset) Len() int { return len(d.posts) }

// All returns every post, newest first.
func (d *Dataset) All() []content.Post { return slices.Clone(d.posts) }

// Series returns the posts marked as part of a series, newest first.
func (d *Dataset) Series() []content.Post { return slices.Clone(d.series) }

// Years returns the distinct numeric first slug segments in order of first
// appearance among the newest-first posts.
func (d *Dataset) Years() []string { return slices.Clone(d.years) }

// Tags returns distinct tags in order of first appearance.
func (d *Dataset) Tags() []string { return slices.Clone(d.tags) }

// ByYear returns the posts whose first slug segment equals year.
func (d *Dataset) ByYear(year string) []content.Post {
	return d.filter(func(p content.Post) bool { return p.Segment(0) == year })
}

// SeriesBySlug returns the series posts whose second slug segment equals slug.
func (d *Dataset) SeriesBySlug(slug string) []content.Post {
	var out []content.Post
	for _, p := range d.series {
		if p.Segment(1) == slug {
			out = append(out, p)
		}
	}
	return out
}

// SeriesSlugs returns distinct series slugs in order of first appearance.
func (d *Dataset) SeriesSlugs() []string {
	var out []string
	for _, p := range d.series {
		if s := p.Segment(1); s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns distinct second slug segments in order of first appearance.
func (d *Dataset) Categories() []string {
	var out []string
	for _, p := range d.posts {
		if c := p.Category(); c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// BySlug returns the first post whose last slug segment equals slug.
func (d *Dataset) BySlug(slug string) (content.Post, bool) {
	i := d.index(slug)
	if i < 0 {
		return content.Post{}, false
	}
	return d.posts[i], true
}

// Prev returns the post published before slug (the next one in the
// newest-first list). It reports false for the oldest post or an unknown slug.
func (d *Dataset) Prev(slug string) (content.Post, bool) {
	i := d.index(slug)
	if i < 0 || i+1 >= len(d.posts) {
		return content.Post{}, false
	}
	return d.posts[i+1], true
}

// Next returns the post published after slug. It reports false for the newest
// post or an unknown slug.
func (d *Dataset) Next(slug string) (content.Post, bool) {
	i := d.index(slug)
	if i <= 0 {
		return content.Post{}, false
	}
	return d.posts[i-1], true
}

func (d *Dataset) index(slug string) int {
	return slices.IndexFunc(d.posts, func(p content.Post) bool { return p.Name() == slug })
}

// Recent returns the RecentCount newest posts.
func (d *Dataset) Recent() []content.Post { return d.RecentN(RecentCount) }

// RecentN returns the n newest posts.
func (d *Dataset) RecentN(n int) []content.Post {
	n = max(0, min(n, len(d.posts)))
	return slices.Clone(d.posts[:n])
}

// ByTag returns the posts carrying tag. The tag may be URL encoded, as it is
// when taken from a path; if it does not decode it is matched as is.
func (d *Dataset) ByTag(tag string) []content.Post {
	if decoded, err := url.PathUnescape(tag); err == nil {
		tag = decoded
	}
	return d.filter(func(p content.Post) bool { return slices.Contains(p.Tags, tag) })
}

// TagCounts returns every tag with its post count, most used first, ties by name.
func (d *Dataset) TagCounts() []TagCount {
	counts := make(map[string]int, len(d.tags))
	for _, p := range d.posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(d.tags))
	for _, t := range d.tags {
		out = append(out, TagCount{Tag: t, Count: counts[t]})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}

// Related returns up to n other posts sharing at least one tag with post,
// newest first. Tags compare exactly, as in ByTag. A non-positive n means no
// limit.
func (d *Dataset) Related(post content.Post, n int) []content.Post {
	tagSet := make(map[string]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		tagSet[t] = struct{}{}
	}
	var related []content.Post
	for _, p := range d.posts {
		if p.SlugAsParams == post.SlugAsParams {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, p)
				break
			}
		}
		if n > 0 && len(related) == n {
			break
		}
	}
	return related
}

// Search returns posts whose title, description or tags contain query,
// ignoring case. An empty query matches nothing.
func (d *Dataset) Search(query string) []content.Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return d.filter(func(p content.Post) bool {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			return true
		}
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	})
}

func (d *Dataset) filter(keep func(content.Post) bool) []content.Post {
	var out []content.Post
	for _, p := range d.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
