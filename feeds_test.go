package pubsite

import (
	"context"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubsite/dataset"
)

func testDataset(t *testing.T, a *App) *dataset.Dataset {
	t.Helper()
	posts, err := a.Source.LoadPosts(context.Background())
	require.NoError(t, err)
	return dataset.New(posts)
}

func TestRSSFeed(t *testing.T) {
	a := newTestApp(t)
	ds := testDataset(t, a)

	data, err := a.rssFeed(ds.All())
	require.NoError(t, err)

	var feed rssXML
	require.NoError(t, xml.Unmarshal(data, &feed))
	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Test Blog", feed.Channel.Title)
	assert.Equal(t, "https://example.com", feed.Channel.Link)
	require.Len(t, feed.Channel.Items, 3)
	first := feed.Channel.Items[0]
	assert.Equal(t, "Channels", first.Title)
	assert.Equal(t, "https://example.com/blog/2024/go/channels/", first.Link)
	assert.Equal(t, first.Link, first.GUID)
	assert.Equal(t, []string{"go", "concurrency"}, first.Categories)
	assert.Equal(t, "Mon, 15 Jan 2024 00:00:00 +0000", first.PubDate)
	assert.Equal(t, first.PubDate, feed.Channel.LastBuildDate)
}

func TestRSSFeedEmpty(t *testing.T) {
	a := newTestApp(t)
	data, err := a.rssFeed(nil)
	require.NoError(t, err)

	var feed rssXML
	require.NoError(t, xml.Unmarshal(data, &feed))
	assert.Empty(t, feed.Channel.Items)
	assert.Empty(t, feed.Channel.LastBuildDate)
}

func TestAtomFeed(t *testing.T) {
	a := newTestApp(t)
	ds := testDataset(t, a)

	data, err := a.atomFeed(ds.All())
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "Channels")
	assert.Contains(t, body, "https://example.com/blog/2023/react/hooks/")
	assert.Contains(t, body, "Tester")
}

func TestSitemap(t *testing.T) {
	a := newTestApp(t)
	ds := testDataset(t, a)

	data, err := a.sitemap(ds)
	require.NoError(t, err)

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(data, &set))
	locs := make(map[string]string)
	for _, u := range set.URLs {
		locs[u.Loc] = u.LastMod
	}
	assert.Contains(t, locs, "https://example.com")
	assert.Contains(t, locs, "https://example.com/blog/")
	assert.Contains(t, locs, "https://example.com/tags/go/")
	assert.Contains(t, locs, "https://example.com/years/2024/")
	assert.Contains(t, locs, "https://example.com/series/react/")
	assert.Equal(t, "2024-01-15", locs["https://example.com/blog/2024/go/channels/"])
	// home, blog, tags, 4 tags, 2 years, 1 series, 3 posts
	assert.Len(t, set.URLs, 13)
}

func TestRobotsTxt(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://example.com/sitemap.xml\n", string(a.robotsTxt()))
}
