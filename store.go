package pubsite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubsite/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("pubsite: post not found")

// Store is a SQLite index of generated content. `pubsite index` fills it from
// the content directory; the preview server and builder can then read posts
// from it instead of re-rendering every Markdown file.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug_as_params TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    is_series INTEGER NOT NULL DEFAULT 0,
    thumbnail TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    html TEXT NOT NULL,
    headings TEXT NOT NULL,
    words INTEGER NOT NULL,
    source_path TEXT NOT NULL
);
`)
	return err
}

const postColumns = `slug_as_params, id, slug, title, date, description, tags, is_series, thumbnail, draft, body, html, headings, words, source_path`

// ReplaceAll swaps the indexed posts for posts in a single transaction.
// Posts with a tag containing a comma are rejected and nothing is replaced.
// Insertion order is preserved by LoadPosts.
func (s *Store) ReplaceAll(ctx context.Context, posts []content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		for _, tag := range p.Tags {
			if strings.Contains(tag, ",") {
				return fmt.Errorf("index %s: %w: %q", p.SlugAsParams, content.ErrCommaInTag, tag)
			}
		}
		headings, err := json.Marshal(p.Headings)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			p.SlugAsParams, p.ID, p.Slug, p.Title, p.DateString(), p.Description,
			joinTags(p.Tags), boolInt(p.IsSeries), p.Thumbnail, boolInt(p.Draft),
			p.Body, p.HTML, string(headings), p.ReadingTime.Words, p.SourcePath,
		); err != nil {
			return fmt.Errorf("index %s: %w", p.SlugAsParams, err)
		}
	}
	return tx.Commit()
}

// LoadPosts returns every indexed post in insertion order. It makes Store a
// content.Source.
func (s *Store) LoadPosts(ctx context.Context) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by its SlugAsParams.
func (s *Store) GetPost(ctx context.Context, slugAsParams string) (content.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug_as_params = ?`, slugAsParams)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Post{}, ErrNotFound
	}
	return p, err
}

// ListTags returns a sorted, deduplicated slice of all indexed tags.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.Post, error) {
	var (
		p                 content.Post
		date, tags, heads string
		isSeries, draft   int
		words             int
	)
	err := row.Scan(&p.SlugAsParams, &p.ID, &p.Slug, &p.Title, &date, &p.Description,
		&tags, &isSeries, &p.Thumbnail, &draft, &p.Body, &p.HTML, &heads, &words, &p.SourcePath)
	if err != nil {
		return content.Post{}, err
	}
	if p.Date, err = time.Parse("2006-01-02", date); err != nil {
		return content.Post{}, fmt.Errorf("post %s: bad date %q: %w", p.SlugAsParams, date, err)
	}
	if err := json.Unmarshal([]byte(heads), &p.Headings); err != nil {
		return content.Post{}, fmt.Errorf("post %s: bad headings: %w", p.SlugAsParams, err)
	}
	p.Tags = ParseTags(tags)
	p.IsSeries = isSeries == 1
	p.Draft = draft == 1
	p.ReadingTime = content.NewReadingTime(words)
	return p, nil
}

// joinTags stores tags as ",a,b," so a single tag can be matched with instr.
// Tags therefore cannot contain commas; ReplaceAll rejects them.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
