package postgres

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/evohome/evohome-cms/pkg/db"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB answers the four statements the client issues from a map
type fakeDB struct {
	docs    map[string][]byte
	failing error
}

func newFakeDB() *fakeDB { return &fakeDB{docs: map[string][]byte{}} }

func docKey(collection, key any) string { return collection.(string) + "/" + key.(string) }

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.failing != nil {
		return fakeRow{err: f.failing}
	}
	raw, ok := f.docs[docKey(args[0], args[1])]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{raw: raw}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.failing != nil {
		return nil, f.failing
	}
	prefix := args[0].(string) + "/"
	keys := []string{}
	for k := range f.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(keys)
	return &fakeRows{keys: keys, pos: -1}, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.failing != nil {
		return pgconn.CommandTag{}, f.failing
	}
	switch {
	case strings.Contains(sql, "INSERT INTO documents"):
		f.docs[docKey(args[0], args[1])] = args[2].([]byte)
	case strings.Contains(sql, "DELETE FROM documents"):
		delete(f.docs, docKey(args[0], args[1]))
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Ping(ctx context.Context) error { return f.failing }

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

type fakeRows struct {
	keys []string
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.pos++; return r.pos < len(r.keys) }
func (r *fakeRows) Values() ([]any, error)                       { return []any{r.keys[r.pos]}, nil }
func (r *fakeRows) RawValues() [][]byte                          { return [][]byte{[]byte(r.keys[r.pos])} }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.keys[r.pos]
	return nil
}

func TestClient_ReadWriteDeleteList(t *testing.T) {
	ctx := context.Background()
	client := NewClient(newFakeDB())

	_, ok, err := client.Read(ctx, "pages", "home")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := jsonvalue.MustParse(`{"slug":"home","blocks":[]}`)
	require.NoError(t, client.Write(ctx, "pages", "home", doc))
	require.NoError(t, client.Write(ctx, "pages", "about", doc))

	got, ok, err := client.Read(ctx, "pages", "home")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, jsonvalue.Equal(doc, got))

	keys, err := client.ListKeys(ctx, "pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "home"}, keys)

	require.NoError(t, client.Delete(ctx, "pages", "home"))
	keys, err = client.ListKeys(ctx, "pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"about"}, keys)
}

func TestClient_PropagatesFailures(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDB()
	fake.failing = errors.New("connection refused")
	client := NewClient(fake)

	_, _, err := client.Read(ctx, "content", "homepage")
	assert.ErrorIs(t, err, fake.failing)
	assert.Error(t, client.Write(ctx, "content", "homepage", jsonvalue.EmptyObject()))
	assert.Error(t, client.Delete(ctx, "content", "homepage"))
	_, err = client.ListKeys(ctx, "content")
	assert.Error(t, err)
	assert.Error(t, client.Ping(ctx))
}

// TestClient_Integration runs against a real database when TEST_DATABASE_URL is set
func TestClient_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	poolCfg := db.PoolConfig{URL: url, MaxConns: 2}
	require.NoError(t, db.RunMigrations(poolCfg, "file://../../../migrations", db.Up))

	pool, err := db.NewPool(ctx, poolCfg)
	require.NoError(t, err)
	defer db.Close(pool)

	client := NewClient(pool)
	collection := "itest-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM documents WHERE collection = $1", collection)
	})

	doc := jsonvalue.MustParse(`{"title":"Heat pumps","price":12.50}`)
	require.NoError(t, client.Write(ctx, collection, "b", doc))
	require.NoError(t, client.Write(ctx, collection, "a", doc))

	got, ok, err := client.Read(ctx, collection, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, jsonvalue.Equal(doc, got))

	keys, err := client.ListKeys(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}
