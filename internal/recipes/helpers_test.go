package recipes_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/JaimeStill/recipe-lab/internal/migrations"
	"github.com/JaimeStill/recipe-lab/internal/recipes"
	"github.com/JaimeStill/recipe-lab/pkg/database"
	"github.com/JaimeStill/recipe-lab/pkg/storage"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a migrated SQLite database in a temp directory with a
// small ingredient catalog.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "recipes.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	sys, err := database.New(cfg, testLogger())
	if err != nil {
		t.Fatalf("database.New() failed: %v", err)
	}
	db := sys.Connection()
	t.Cleanup(func() { db.Close() })

	if err := migrations.Up(cfg, testLogger()); err != nil {
		t.Fatalf("migrations.Up() failed: %v", err)
	}

	for _, row := range [][2]string{
		{"tomato", "Vegan"},
		{"onion", "Vegan"},
		{"basil", "Vegan"},
		{"egg", "Vegetarian"},
	} {
		if _, err := db.Exec(`INSERT INTO ingredients (name, diet_type) VALUES ($1, $2)`, row[0], row[1]); err != nil {
			t.Fatalf("seed ingredient %s: %v", row[0], err)
		}
	}

	return db
}

// faultyFS wraps a billy filesystem and fails selected operations.
type faultyFS struct {
	billy.Filesystem
	failCreate bool
	failRename func(to string) bool
}

func (f *faultyFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if f.failCreate {
		return nil, errors.New("injected create failure")
	}
	return f.Filesystem.OpenFile(name, flag, perm)
}

func (f *faultyFS) Rename(from, to string) error {
	if f.failRename != nil && f.failRename(to) {
		return errors.New("injected rename failure")
	}
	return f.Filesystem.Rename(from, to)
}

type fixture struct {
	db    *sql.DB
	dir   string
	fs    *faultyFS
	store storage.System
	sys   recipes.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	ffs := &faultyFS{Filesystem: osfs.New(dir)}
	store := storage.NewFilesystem(ffs, testLogger())
	db := newTestDB(t)

	return &fixture{
		db:    db,
		dir:   dir,
		fs:    ffs,
		store: store,
		sys:   recipes.New(db, store, testLogger()),
	}
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	if err := f.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

// part is one multipart form part. Attachments set file; contentType is
// omitted from the part header when empty.
type part struct {
	name        string
	value       string
	data        []byte
	file        bool
	contentType string
}

func text(name, value string) part {
	return part{name: name, value: value}
}

func attachment(name, contentType string, data []byte) part {
	return part{name: name, data: data, file: true, contentType: contentType}
}

func encodeForm(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		if p.file {
			h.Set("Content-Disposition", `form-data; name="`+p.name+`"; filename="`+p.name+`.bin"`)
			if p.contentType != "" {
				h.Set("Content-Type", p.contentType)
			}
		} else {
			h.Set("Content-Disposition", `form-data; name="`+p.name+`"`)
		}

		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart() failed: %v", err)
		}

		data := p.data
		if !p.file {
			data = []byte(p.value)
		}
		if _, err := pw.Write(data); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func decodeParts(t *testing.T, parts ...part) (*recipes.IngestionRequest, error) {
	t.Helper()

	body, contentType := encodeForm(t, parts...)
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType() failed: %v", err)
	}
	return recipes.Decode(multipart.NewReader(body, params["boundary"]))
}

func mustDecode(t *testing.T, parts ...part) *recipes.IngestionRequest {
	t.Helper()

	req, err := decodeParts(t, parts...)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	return req
}

func tomatoSoup() []part {
	return []part{
		text("name", "Tomato Soup"),
		text("rations", "4"),
		text("ingredients[]", "tomato,500,Grams"),
		text("Text", "Boil and blend."),
	}
}

func create(t *testing.T, sys recipes.System, parts ...part) (*recipes.Recipe, error) {
	t.Helper()
	return sys.Create(context.Background(), mustDecode(t, parts...))
}
