package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubsite/content"
)

func post(slugAsParams, date string, series bool, tags ...string) content.Post {
	d, err := time.Parse(time.RFC3339, date)
	if err != nil {
		d, err = time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
	}
	return content.Post{
		Title:        slugAsParams,
		Date:         d,
		Tags:         tags,
		IsSeries:     series,
		Slug:         "/blog/" + slugAsParams,
		SlugAsParams: slugAsParams,
	}
}

func names(posts []content.Post) []string {
	var out []string
	for _, p := range posts {
		out = append(out, p.Name())
	}
	return out
}

func fixture() *Dataset {
	return New([]content.Post{
		post("2022/go/channels", "2022-11-02", false, "go", "concurrency"),
		post("2023/react/hooks", "2023-03-01", true, "react", "frontend"),
		post("2023/react/state", "2023-04-10", true, "react"),
		post("2024/next/routing", "2024-01-05", false, "next.js", "frontend"),
		post("about/me", "2021-01-01", false),
		post("2023/css/grid", "2023-04-10T18:00:00Z", false, "css", "프론트엔드"),
	})
}

func TestAllSortedNewestFirst(t *testing.T) {
	d := fixture()
	assert.Equal(t,
		[]string{"routing", "state", "grid", "hooks", "channels", "me"},
		names(d.All()))
	assert.Equal(t, 6, d.Len())
}

func TestSortIgnoresTimeOfDayAndIsStable(t *testing.T) {
	d := New([]content.Post{
		post("2023/a/late", "2023-04-10T23:00:00Z", false),
		post("2023/a/early", "2023-04-10T01:00:00Z", false),
	})
	assert.Equal(t, []string{"late", "early"}, names(d.All()))
}

func TestAllReturnsCopy(t *testing.T) {
	d := fixture()
	all := d.All()
	all[0].Title = "changed"
	assert.NotEqual(t, "changed", d.All()[0].Title)
}

func TestSeries(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"state", "hooks"}, names(d.Series()))
	assert.Equal(t, []string{"state", "hooks"}, names(d.SeriesBySlug("react")))
	assert.Empty(t, d.SeriesBySlug("go"))
	assert.Equal(t, []string{"react"}, d.SeriesSlugs())
}

func TestYears(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"2024", "2023", "2022"}, d.Years())
	assert.Equal(t, []string{"state", "grid", "hooks"}, names(d.ByYear("2023")))
	assert.Empty(t, d.ByYear("1999"))
}

func TestYearsIgnoresNonNumeric(t *testing.T) {
	d := New([]content.Post{
		post("0/x/zero", "2023-01-01", false),
		post("drafts/x/y", "2023-01-02", false),
		post("nan/x/a", "2023-01-03", false),
		post("NaN/x/b", "2023-01-04", false),
		post("inf/x/c", "2023-01-05", false),
		post("-Infinity/x/d", "2023-01-06", false),
		post("2024/x/e", "2023-01-07", false),
	})
	assert.Equal(t, []string{"2024"}, d.Years())
	assert.Empty(t, d.ByYear("nan"))
}

func TestBySlug(t *testing.T) {
	d := fixture()
	p, ok := d.BySlug("hooks")
	require.True(t, ok)
	assert.Equal(t, "2023/react/hooks", p.SlugAsParams)

	_, ok = d.BySlug("missing")
	assert.False(t, ok)
}

func TestPrevNext(t *testing.T) {
	d := fixture()

	prev, ok := d.Prev("grid")
	require.True(t, ok)
	assert.Equal(t, "hooks", prev.Name())

	next, ok := d.Next("grid")
	require.True(t, ok)
	assert.Equal(t, "state", next.Name())

	_, ok = d.Next("routing")
	assert.False(t, ok, "newest post has no next")

	_, ok = d.Prev("me")
	assert.False(t, ok, "oldest post has no prev")

	_, ok = d.Prev("missing")
	assert.False(t, ok, "unknown slug has no prev")
	_, ok = d.Next("missing")
	assert.False(t, ok, "unknown slug has no next")
}

func TestRecent(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"routing", "state", "grid", "hooks"}, names(d.Recent()))
	assert.Equal(t, []string{"routing"}, names(d.RecentN(1)))
	assert.Len(t, d.RecentN(100), 6)
	assert.Empty(t, d.RecentN(-1))
	assert.Empty(t, New(nil).Recent())
}

func TestByTag(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"routing", "hooks"}, names(d.ByTag("frontend")))
	assert.Equal(t, []string{"routing"}, names(d.ByTag("next.js")))
	assert.Equal(t, []string{"grid"}, names(d.ByTag("%ED%94%84%EB%A1%A0%ED%8A%B8%EC%97%94%EB%93%9C")))
	assert.Empty(t, d.ByTag("React"), "matching is case-sensitive")
	assert.Empty(t, d.ByTag("%zz"))

	literal := New([]content.Post{
		post("2023/x/odd", "2023-01-01", false, "%zz"),
		post("2023/x/space", "2023-01-02", false, "a%20b"),
	})
	assert.Equal(t, []string{"odd"}, names(literal.ByTag("%zz")), "undecodable tag is matched literally")
	assert.Equal(t, []string{"space"}, names(literal.ByTag("a%2520b")), "decoded once")
	assert.Empty(t, literal.ByTag("a%20b"))
}

func TestTags(t *testing.T) {
	d := fixture()
	assert.Equal(t,
		[]string{"next.js", "frontend", "react", "css", "프론트엔드", "go", "concurrency"},
		d.Tags())

	counts := d.TagCounts()
	require.Len(t, counts, 7)
	assert.Equal(t, TagCount{Tag: "frontend", Count: 2}, counts[0])
	assert.Equal(t, TagCount{Tag: "react", Count: 2}, counts[1])
	assert.Equal(t, TagCount{Tag: "concurrency", Count: 1}, counts[2])
}

func TestCategories(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"next", "react", "css", "go", "me"}, d.Categories())
}

func TestRelated(t *testing.T) {
	d := fixture()
	hooks, _ := d.BySlug("hooks")
	assert.Equal(t, []string{"routing", "state"}, names(d.Related(hooks, 0)))
	assert.Equal(t, []string{"routing"}, names(d.Related(hooks, 1)))

	me, _ := d.BySlug("me")
	assert.Empty(t, d.Related(me, 3))

	mixed := New([]content.Post{
		post("2023/go/lower", "2023-01-01", false, "go"),
		post("2023/go/upper", "2023-01-02", false, "Go"),
	})
	lower, _ := mixed.BySlug("lower")
	assert.Empty(t, mixed.Related(lower, 0), "tags compare case-sensitively, like ByTag")
}

func TestSearch(t *testing.T) {
	d := fixture()
	assert.Equal(t, []string{"state", "hooks"}, names(d.Search("REACT")))
	assert.Equal(t, []string{"channels"}, names(d.Search("concur")))
	assert.Nil(t, d.Search("   "))
}
