package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
)

func TestTableManagerAddAndGet(t *testing.T) {
	tm := NewTableManager()
	file := newMockDbFile(42)

	require.NoError(t, tm.AddTable(file))
	require.True(t, tm.TableExists(42))

	got, err := tm.GetDbFile(42)
	require.NoError(t, err)
	require.Equal(t, file, got)
}

func TestTableManagerAddNil(t *testing.T) {
	tm := NewTableManager()

	err := tm.AddTable(nil)
	require.Error(t, err)
	require.True(t, dberr.Is(err, dberr.KindInvalidArgument))
}

func TestTableManagerGetMissing(t *testing.T) {
	tm := NewTableManager()

	_, err := tm.GetDbFile(7)
	require.Error(t, err)
	require.True(t, dberr.Is(err, dberr.KindNotFound))
}

func TestTableManagerReplace(t *testing.T) {
	tm := NewTableManager()
	first := newMockDbFile(1)
	second := newMockDbFile(1)

	require.NoError(t, tm.AddTable(first))
	require.NoError(t, tm.AddTable(second))

	got, err := tm.GetDbFile(1)
	require.NoError(t, err)
	require.Equal(t, second, got, "re-registering an ID replaces the file")
}

func TestTableManagerRemove(t *testing.T) {
	tm := NewTableManager()
	require.NoError(t, tm.AddTable(newMockDbFile(1)))

	require.NoError(t, tm.RemoveTable(1))
	require.False(t, tm.TableExists(1))
	require.Error(t, tm.RemoveTable(1))
}

func TestTableManagerIDsAndClear(t *testing.T) {
	tm := NewTableManager()
	require.NoError(t, tm.AddTable(newMockDbFile(1)))
	require.NoError(t, tm.AddTable(newMockDbFile(2)))

	ids := tm.TableIDs()
	require.Len(t, ids, 2)
	require.Contains(t, ids, primitives.TableID(1))
	require.Contains(t, ids, primitives.TableID(2))

	tm.Clear()
	require.Empty(t, tm.TableIDs())
}
