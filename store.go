package inkpot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/eringen/inkpot/logger"
)

// DateLayout is the format of BlogPost.Date.
const DateLayout = "2006-01-02"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseMu sync.Mutex

// Store wraps a SQLite database and provides CRUD operations for blog posts.
type Store struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and applies the embedded migrations.
func NewStore(ctx context.Context, path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w: %w", ErrStoreUnavailable, err)
	}
	s := &Store{db: db, log: log, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// buildDSN attaches the connection pragmas as DSN parameters so that every
// pooled connection gets them. WAL lets readers proceed during a write, the
// busy timeout makes writers wait instead of failing with SQLITE_BUSY, and
// immediate transactions take the write lock at BEGIN.
func buildDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(ON)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

func (s *Store) migrate(ctx context.Context) (err error) {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store: apply migrations: %v", r)
		}
	}()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logger.Printf{Logger: s.log.With("component", "migrations")})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("store: apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

const postColumns = `id, title, subtitle, date, body, author, img_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.Author, &p.ImgURL)
	return p, err
}

// ListPosts returns every post in insertion order.
func (s *Store) ListPosts(ctx context.Context) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM blog_post ORDER BY id ASC`)
	if err != nil {
		return nil, classify("list posts", err)
	}
	defer rows.Close()

	posts := make([]BlogPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, classify("scan post", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iter posts", err)
	}
	return posts, nil
}

// CountPosts returns the number of stored posts.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_post`).Scan(&n); err != nil {
		return 0, classify("count posts", err)
	}
	return n, nil
}

// GetPost returns a single post by id, or ErrNotFound.
func (s *Store) GetPost(ctx context.Context, id int64) (BlogPost, error) {
	return getPost(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getPost(ctx context.Context, q queryRower, id int64) (BlogPost, error) {
	p, err := scanPost(q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_post WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlogPost{}, ErrNotFound
		}
		return BlogPost{}, classify("get post", err)
	}
	return p, nil
}

// InsertPost stores a new post dated today and returns it with its id.
func (s *Store) InsertPost(ctx context.Context, in PostInput) (BlogPost, error) {
	post := BlogPost{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(DateLayout),
		Body:     in.Body,
		Author:   in.Author,
		ImgURL:   in.ImgURL,
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO blog_post (title, subtitle, date, body, author, img_url) VALUES (?, ?, ?, ?, ?, ?)`,
			post.Title, post.Subtitle, post.Date, post.Body, post.Author, post.ImgURL)
		if err != nil {
			return classify("insert post", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return classify("insert post id", err)
		}
		post.ID = id
		return nil
	})
	if err != nil {
		return BlogPost{}, err
	}
	return post, nil
}

// UpdatePost replaces every field of the post except its id and date.
func (s *Store) UpdatePost(ctx context.Context, id int64, in PostInput) (BlogPost, error) {
	var post BlogPost
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE blog_post SET title = ?, subtitle = ?, body = ?, author = ?, img_url = ? WHERE id = ?`,
			in.Title, in.Subtitle, in.Body, in.Author, in.ImgURL, id); err != nil {
			return classify("update post", err)
		}
		post = BlogPost{
			ID:       current.ID,
			Title:    in.Title,
			Subtitle: in.Subtitle,
			Date:     current.Date,
			Body:     in.Body,
			Author:   in.Author,
			ImgURL:   in.ImgURL,
		}
		return nil
	})
	if err != nil {
		return BlogPost{}, err
	}
	return post, nil
}

// DeletePost removes a post permanently and returns its title.
func (s *Store) DeletePost(ctx context.Context, id int64) (string, error) {
	var title string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM blog_post WHERE id = ?`, id); err != nil {
			return classify("delete post", err)
		}
		title = current.Title
		return nil
	})
	if err != nil {
		return "", err
	}
	return title, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin tx", err)
	}
	defer func() {
		if err != nil {
			if rb := tx.Rollback(); rb != nil && !errors.Is(rb, sql.ErrTxDone) {
				s.log.Warn("store: rollback failed", "error", rb)
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return classify("commit tx", err)
	}
	return nil
}

// classify maps a driver error onto ConstraintError or ErrStoreUnavailable.
func classify(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return constraintError(se)
	}
	return fmt.Errorf("store: %s: %w: %w", op, ErrStoreUnavailable, err)
}

// constraintError reads the failing column from SQLite's message, e.g.
// "constraint failed: UNIQUE constraint failed: blog_post.title (2067)" or
// "constraint failed: CHECK constraint failed: subtitle_check (275)".
func constraintError(se *sqlite.Error) *ConstraintError {
	msg := se.Error()
	ce := &ConstraintError{Message: "Invalid value.", Err: se}
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ce
	}
	detail := strings.TrimSpace(msg[i+len(marker):])
	if i := strings.IndexAny(detail, " ("); i >= 0 {
		detail = detail[:i]
	}
	switch {
	case strings.Contains(msg, "UNIQUE"):
		ce.Field = strings.TrimPrefix(detail, "blog_post.")
		ce.Message = "A post with this " + ce.Field + " already exists."
	case strings.Contains(msg, "NOT NULL"):
		ce.Field = strings.TrimPrefix(detail, "blog_post.")
		ce.Message = "This field is required."
	case strings.Contains(msg, "CHECK"):
		ce.Field = strings.TrimSuffix(detail, "_check")
		ce.Message = "This field is required and must be at most 250 characters."
	}
	return ce
}
