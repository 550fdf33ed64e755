package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/task"
)

func populated(t *testing.T, saver task.Saver) *task.Store {
	t.Helper()
	s := task.NewStore(nil, saver)
	_, err := s.Create("Buy milk", task.PriorityMedium)
	require.NoError(t, err)
	rent, err := s.Create("Pay rent", task.PriorityHigh)
	require.NoError(t, err)
	_, err = s.Create("Call mom", task.PriorityLow)
	require.NoError(t, err)
	_, err = s.Toggle(rent.ID)
	require.NoError(t, err)
	return s
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := populated(t, nil)
	data, err := Encode(s.Tasks())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Tasks(), got)
}

func TestEncodeFieldNames(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	data, err := Encode([]task.Task{{ID: "a", Text: "x", Priority: task.PriorityLow, CreatedAt: created}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"a","text":"x","completed":false,"priority":"low","createdAt":"2024-03-01T09:30:00Z","completedAt":null}]`,
		string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{oops`,
		"wrong shape":    `{"id":"a"}`,
		"missing id":     `[{"text":"x","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
		"empty text":     `[{"id":"a","text":"","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
		"bad priority":   `[{"id":"a","text":"x","priority":"urgent","createdAt":"2024-03-01T09:30:00Z"}]`,
		"duplicate id":   `[{"id":"a","text":"x","priority":"low"},{"id":"a","text":"y","priority":"low"}]`,
		"bad timestamp":  `[{"id":"a","text":"x","priority":"low","createdAt":"yesterday"}]`,
		"trailing data":  `[{"id":"a","text":"x","priority":"low","createdAt":"2024-03-01T09:30:00Z"}] garbage`,
		"second value":   `[] [{"id":"b"}]`,
		"blank text":     `[{"id":"a","text":"   ","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
		"padded text":    `[{"id":"a","text":" x ","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
		"long text":      `[{"id":"a","text":"` + strings.Repeat("x", task.MaxTextLength+1) + `","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
		"no completedAt": `[{"id":"a","text":"x","completed":true,"priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(blob))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeAcceptsLongestText(t *testing.T) {
	text := strings.Repeat("é", task.MaxTextLength)
	got, err := Decode([]byte(`[{"id":"a","text":"` + text + `","priority":"low","createdAt":"2024-03-01T09:30:00Z"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0].Text)
}

func TestAdapterLoadTrailingDataFallsBackToEmpty(t *testing.T) {
	blob := NewMemory([]byte(`[{"id":"a","text":"x","priority":"low","createdAt":"2024-03-01T09:30:00Z"}] garbage`))
	tasks, err := NewAdapter(blob, nil).Load()
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, tasks)
}

func TestAdapterLoadMissingBlob(t *testing.T) {
	a := NewAdapter(NewMemory(nil), nil)
	tasks, err := a.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAdapterLoadMalformedFallsBackToEmpty(t *testing.T) {
	a := NewAdapter(NewMemory([]byte("not json")), nil)
	tasks, err := a.Load()

	var perr *task.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestAdapterLoadBackendError(t *testing.T) {
	m := NewMemory(nil)
	m.LoadErr = errors.New("io")
	tasks, err := NewAdapter(m, nil).Load()
	assert.Error(t, err)
	assert.Empty(t, tasks)
}

func TestStoreSavesThroughAdapter(t *testing.T) {
	m := NewMemory(nil)
	a := NewAdapter(m, nil)
	s := populated(t, a)
	assert.Equal(t, 4, m.Saves())

	reloaded, err := a.Load()
	require.NoError(t, err)
	assert.Equal(t, s.Tasks(), reloaded)
}

func TestStoreSaveFailureSurfacesPersistenceError(t *testing.T) {
	m := NewMemory(nil)
	m.SaveErr = errors.New("quota exceeded")
	s := task.NewStore(nil, NewAdapter(m, nil))

	_, err := s.Create("Buy milk", "")
	var perr *task.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "quota exceeded")
	assert.Len(t, s.Tasks(), 1)
}

func TestSQLiteBlobRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "tasks.db")
	db, err := Open(dbPath)
	require.NoError(t, err)

	blob := db.Blob(DefaultKey)
	data, err := blob.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	a := NewAdapter(blob, nil)
	s := populated(t, a)
	require.NoError(t, db.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := NewAdapter(reopened.Blob(DefaultKey), nil).Load()
	require.NoError(t, err)
	assert.Equal(t, s.Tasks(), got)

	other, err := reopened.Blob("other").Load()
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSQLiteBlobOverwrites(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blob := db.Blob("k")
	require.NoError(t, blob.Save([]byte("first")))
	require.NoError(t, blob.Save([]byte("second")))
	data, err := blob.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))
	dsn := sqliteDSN("/tmp/x/tasks.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///tmp/x/tasks.db?"), dsn)
	assert.Contains(t, dsn, "mode=rwc")
}
