// Package rowstore stores tables as tab-separated text files, one row per line.
//
// Blank lines and lines starting with '#' are not data. They are hidden from
// ReadRows but kept verbatim when a table is rewritten through Update.
package rowstore

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	// Separator splits fields within a line.
	Separator = "\t"
	// CommentPrefix marks a line that is not data.
	CommentPrefix = "#"

	tableExt = ".txt"
	lockExt  = ".lock"
)

// Table names a single table inside a Store.
type Table string

// Row is one line of a table. Data rows carry Fields. Comment and blank
// lines carry their original text in Raw and no Fields.
type Row struct {
	Raw    string
	Fields []string
}

// DataRow builds a row from fields.
func DataRow(fields ...string) Row {
	return Row{Fields: fields}
}

// IsData reports whether the row holds fields rather than a comment or blank line.
func (r Row) IsData() bool {
	return r.Fields != nil
}

func (r Row) line() string {
	if r.IsData() {
		return strings.Join(r.Fields, Separator)
	}
	return r.Raw
}

// Store is a directory of tables.
type Store struct {
	locks map[Table]*sync.Mutex
	dir   string
	mu    sync.Mutex
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("rowstore: directory cannot be empty")
	}
	return &Store{
		dir:   dir,
		locks: make(map[Table]*sync.Mutex),
	}, nil
}

// Dir returns the directory holding the tables.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing table.
func (s *Store) Path(table Table) string {
	return filepath.Join(s.dir, string(table)+tableExt)
}

// Ensure creates the directory and an empty file for each table that does
// not exist yet.
func (s *Store) Ensure(tables ...Table) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, table := range tables {
		f, err := os.OpenFile(s.Path(table), os.O_CREATE|os.O_RDONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
		_ = f.Close()
	}
	return nil
}

// ReadRows returns the fields of every data row. A missing table reads as
// empty. Rows are split on the separator and never rejected here.
func (s *Store) ReadRows(table Table) ([][]string, error) {
	rows, err := s.load(table)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.IsData() {
			out = append(out, r.Fields)
		}
	}
	return out, nil
}

// Snapshot returns every line of table, comments and blank lines included,
// in file order.
func (s *Store) Snapshot(table Table) ([]Row, error) {
	return s.load(table)
}

// AppendRow writes one row at the end of table, creating the directory and
// file when needed. A crash mid-write can leave a truncated last line.
func (s *Store) AppendRow(table Table, fields []string) error {
	lock := s.tableLock(table)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(s.Path(table), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open table %s: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(strings.Join(fields, Separator) + "\n"); err != nil {
		return fmt.Errorf("failed to append to table %s: %w", table, err)
	}
	return nil
}

// RewriteTable replaces the whole content of table with rows.
func (s *Store) RewriteTable(table Table, rows []Row) error {
	lock := s.tableLock(table)
	lock.Lock()
	defer lock.Unlock()

	return s.rewrite(table, rows)
}

// Update runs a read-modify-write cycle on table while holding both the
// in-process table mutex and an advisory file lock. fn receives every line,
// comments included, and returns the lines to write back. When fn returns
// an error nothing is written.
func (s *Store) Update(table Table, fn func(rows []Row) ([]Row, error)) error {
	lock := s.tableLock(table)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	fileLock := flock.New(s.Path(table) + lockExt)
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock table %s: %w", table, err)
	}
	defer func() { _ = fileLock.Unlock() }()

	rows, err := s.load(table)
	if err != nil {
		return err
	}

	updated, err := fn(rows)
	if err != nil {
		return err
	}

	return s.rewrite(table, updated)
}

func (s *Store) tableLock(table Table) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[table]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[table] = lock
	}
	return lock
}

func (s *Store) load(table Table) ([]Row, error) {
	f, err := os.Open(s.Path(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	var rows []Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, CommentPrefix) {
			rows = append(rows, Row{Raw: line})
			continue
		}
		rows = append(rows, Row{Fields: strings.Split(line, Separator)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	slog.Debug("loaded table", "table", table, "lines", len(rows))
	return rows, nil
}

// rewrite writes rows to a temporary file next to the table and renames it
// over the original.
func (s *Store) rewrite(table Table, rows []Row) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, string(table)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", table, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	for _, r := range rows {
		if _, err := w.WriteString(r.line() + "\n"); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to write table %s: %w", table, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write table %s: %w", table, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync table %s: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close table %s: %w", table, err)
	}

	if err := os.Rename(tmpName, s.Path(table)); err != nil {
		return fmt.Errorf("failed to replace table %s: %w", table, err)
	}

	slog.Debug("rewrote table", "table", table, "lines", len(rows))
	return nil
}
