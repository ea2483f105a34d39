package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"physiconf/pkg/domain"
)

func sampleDoc(name string) domain.StoredDocument {
	return domain.StoredDocument{
		Name:      name,
		Settings:  []byte("<settings/>"),
		Rules:     []byte("tumor,oxygen,increases,cycle entry,0.00072,21.5,4,0\n"),
		UpdatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewStoreAppliesDDL(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	var sawDDL bool
	for _, stmt := range conn.execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE") {
			sawDDL = true
			break
		}
	}
	if !sawDDL {
		t.Fatalf("expected documents DDL to be applied, got execs: %v", conn.execs)
	}
}

func TestNewStoreHydratesExistingRows(t *testing.T) {
	db, conn := newStubDB()
	conn.rows = append(conn.rows, docRow{
		name:      "hypoxia",
		settings:  []byte("<settings/>"),
		rules:     []byte("rules"),
		updatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	})
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	got, err := store.Get(context.Background(), "hypoxia")
	if err != nil {
		t.Fatalf("get hydrated document: %v", err)
	}
	if string(got.Settings) != "<settings/>" || string(got.Rules) != "rules" {
		t.Fatalf("unexpected document %+v", got)
	}
	if !got.UpdatedAt.Equal(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp lost: %v", got.UpdatedAt)
	}
}

func TestPutUpsertsRow(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	doc := sampleDoc("doc")
	if err := store.Put(ctx, doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	doc.Settings = []byte("<settings version=\"2\"/>")
	if err := store.Put(ctx, doc); err != nil {
		t.Fatalf("second put: %v", err)
	}

	if len(conn.rows) != 1 {
		t.Fatalf("upsert duplicated rows: %+v", conn.rows)
	}
	if string(conn.rows[0].settings) != "<settings version=\"2\"/>" {
		t.Fatalf("row not updated: %q", conn.rows[0].settings)
	}
	got, err := store.Get(ctx, "doc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Settings) != "<settings version=\"2\"/>" {
		t.Fatalf("memory copy stale: %q", got.Settings)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Put(ctx, sampleDoc("doc")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "doc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(conn.rows) != 0 {
		t.Fatalf("row not deleted: %+v", conn.rows)
	}
	if _, err := store.Get(ctx, "doc"); err == nil {
		t.Fatal("get after delete must fail")
	}
	if err := store.Delete(ctx, "doc"); err == nil {
		t.Fatal("second delete must fail")
	}
}

func TestNewStoreOpenError(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return nil, fmt.Errorf("open fail")
	})
	defer restore()
	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "open fail") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestNewStorePingError(t *testing.T) {
	db, conn := newStubDB()
	conn.failPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestPutExecError(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	conn.failExec = true
	if err := store.Put(context.Background(), sampleDoc("doc")); err == nil || !strings.Contains(err.Error(), "upsert document") {
		t.Fatalf("expected upsert error, got %v", err)
	}
}

// --- stub driver helpers ---

type docRow struct {
	name      string
	settings  []byte
	rules     []byte
	updatedAt time.Time
}

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

type stubConn struct {
	execs    []string
	rows     []docRow
	failExec bool
	failPing bool
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, fmt.Errorf("not implemented") }

func (c *stubConn) Ping(_ context.Context) error {
	if c.failPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	if c.failExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "INSERT INTO DOCUMENTS"):
		row := docRow{
			name:      args[0].Value.(string),
			updatedAt: args[3].Value.(time.Time),
		}
		if b, ok := args[1].Value.([]byte); ok {
			row.settings = b
		}
		if b, ok := args[2].Value.([]byte); ok {
			row.rules = b
		}
		for i := range c.rows {
			if c.rows[i].name == row.name {
				c.rows[i] = row
				return driver.RowsAffected(1), nil
			}
		}
		c.rows = append(c.rows, row)
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(upper, "DELETE FROM DOCUMENTS"):
		name := args[0].Value.(string)
		for i := range c.rows {
			if c.rows[i].name == name {
				c.rows = append(c.rows[:i], c.rows[i+1:]...)
				return driver.RowsAffected(1), nil
			}
		}
		return driver.RowsAffected(0), nil
	default:
		return driver.RowsAffected(0), nil
	}
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(strings.ToUpper(query), "FROM DOCUMENTS") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	values := make([][]driver.Value, 0, len(c.rows))
	for _, row := range c.rows {
		values = append(values, []driver.Value{row.name, row.settings, row.rules, row.updatedAt})
	}
	return &stubRows{
		cols: []string{"name", "settings", "rules", "updated_at"},
		rows: values,
	}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
