package views

import (
	"bytes"
	"context"
	"html/template"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
)

var testSite = SiteConfig{
	Name:                "Jinsoul Blog",
	URL:                 "https://blog.example.com",
	Description:         "프론트엔드 세계를 탐구합니다.",
	Author:              "Jinsoul",
	Profile:             "Frontend developer.",
	ThumbnailCategories: []string{"react"},
}

func testPost(slugAsParams, date string, series bool, tags ...string) content.Post {
	d, _ := time.Parse("2006-01-02", date)
	return content.Post{
		ID:           "id-" + slugAsParams,
		Title:        "Title " + slugAsParams,
		Date:         d,
		Tags:         tags,
		IsSeries:     series,
		Thumbnail:    "/img/" + slugAsParams + ".png",
		Slug:         "/blog/" + slugAsParams,
		SlugAsParams: slugAsParams,
		ReadingTime:  content.NewReadingTime(420),
		Headings: []content.Heading{
			{Level: 2, Text: "Intro", ID: "intro"},
			{Level: 3, Text: "Details", ID: "details"},
		},
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestBlogPage(t *testing.T) {
	ds := dataset.New([]content.Post{
		testPost("2023/react/hooks", "2023-03-01", true, "react"),
		testPost("2023/go/channels", "2023-02-01", false, "go", "동시성"),
	})
	out := render(t, Blog(BlogPageData{
		Page:        Page{Site: testSite, Nav: "blog"},
		Title:       "Blog",
		Description: testSite.Description,
		Series:      SeriesCards(ds),
		Posts:       Cards(testSite, ds.All()),
	}))

	assert.Contains(t, out, "<title>Jinsoul Blog</title>")
	assert.Contains(t, out, "All Posts (2)")
	assert.Contains(t, out, `href="/series/react/"`)
	assert.Contains(t, out, "23.03.01")
	assert.Contains(t, out, "3 min read")
	assert.Contains(t, out, `src="/thumbnails/id-2023/react/hooks.jpg"`)
	assert.NotContains(t, out, "id-2023/go/channels.jpg", "go is not a thumbnail category")
	assert.Contains(t, out, `href="/tags/%EB%8F%99%EC%8B%9C%EC%84%B1/"`)
	assert.Contains(t, out, `id="theme-toggle"`)
	assert.Contains(t, out, `class="active" aria-current="page"`)
}

func TestPostPage(t *testing.T) {
	p := testPost("2023/react/hooks", "2023-03-01", true, "react")
	prev := testPost("2023/react/intro", "2023-01-01", true, "react")
	out := render(t, Post(PostPageData{
		Page: Page{
			Site:   testSite,
			Meta:   PageMeta{Title: p.Title, URL: BuildURL(testSite.URL, p.Slug), OGType: "article"},
			JSONLD: BlogPostingJsonLD(testSite, p),
		},
		Post: p,
		Body: template.HTML(`<h2 id="intro">Intro</h2><p>x</p>`),
		TOC:  TOC(p.Headings),
		Prev: &prev,
	}))

	assert.Contains(t, out, `id="progress-bar"`)
	assert.Contains(t, out, `<h2 id="intro">Intro</h2>`)
	assert.Contains(t, out, `href="#details"`)
	assert.Contains(t, out, `class="toc-depth-1"`)
	assert.Contains(t, out, `datetime="2023-03-01"`)
	assert.Contains(t, out, `href="/blog/2023/react/intro/" rel="prev"`)
	assert.NotContains(t, out, `rel="next"`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `<link rel="canonical" href="https://blog.example.com/blog/2023/react/hooks/">`)
	assert.Contains(t, out, "Frontend developer.")
}

func TestPostPageEscapesTitle(t *testing.T) {
	p := testPost("2023/x/y", "2023-01-01", false)
	p.Title = `<script>alert(1)</script>`
	out := render(t, Post(PostPageData{Page: Page{Site: testSite}, Post: p}))
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestListTagsAndErrorPages(t *testing.T) {
	ds := dataset.New([]content.Post{testPost("2023/go/a", "2023-01-01", false, "go")})

	out := render(t, List(ListPageData{Page: Page{Site: testSite}, Heading: "#go", Kind: "tag", Posts: Cards(testSite, ds.ByTag("go"))}))
	assert.Contains(t, out, "Posts (1)")

	out = render(t, Tags(TagsPageData{Page: Page{Site: testSite, Nav: "tags"}, Tags: ds.TagCounts()}))
	assert.Contains(t, out, `href="/tags/go/"`)
	assert.Contains(t, out, "(1)")

	out = render(t, Home(HomePageData{Page: Page{Site: testSite}, Recent: Cards(testSite, ds.Recent()), Years: ds.Years()}))
	assert.Contains(t, out, `href="/years/2023/"`)

	assert.Contains(t, render(t, NotFound(Page{Site: testSite})), "404")
	assert.Contains(t, render(t, ServerError(Page{Site: testSite})), "500")
}

func TestEmptyPostList(t *testing.T) {
	out := render(t, Blog(BlogPageData{Page: Page{Site: testSite}, Title: "Blog"}))
	assert.Contains(t, out, "All Posts (0)")
	assert.Contains(t, out, "No posts yet.")
}

func TestTOC(t *testing.T) {
	assert.Nil(t, TOC(nil))
	items := TOC([]content.Heading{
		{Level: 3, Text: "a", ID: "a"},
		{Level: 2, Text: "b", ID: "b"},
		{Level: 4, Text: "c", ID: "c"},
		{Level: 2, Text: "no id"},
	})
	assert.Equal(t, []TOCItem{
		{Text: "a", ID: "a", Depth: 1},
		{Text: "b", ID: "b", Depth: 0},
		{Text: "c", ID: "c", Depth: 2},
	}, items)
}

func TestThumbnailURL(t *testing.T) {
	p := content.Post{ID: "abc", Thumbnail: "/img/a.png"}
	assert.Equal(t, "/thumbnails/abc.jpg", ThumbnailURL(p))
	p.Thumbnail = "https://cdn.example.com/a.png"
	assert.Equal(t, "https://cdn.example.com/a.png", ThumbnailURL(p))
	p.Thumbnail = "//cdn.example.com/a.png"
	assert.Equal(t, "//cdn.example.com/a.png", ThumbnailURL(p))
	p.Thumbnail = ""
	assert.Equal(t, "", ThumbnailURL(p))
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/", []string{"/blog/2023/a"}, "https://example.com/blog/2023/a/"},
		{"https://example.com/base", []string{"tags"}, "https://example.com/base/tags/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, BuildURL(tt.base, tt.segments...))
	}
}
