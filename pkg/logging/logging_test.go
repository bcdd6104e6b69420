package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLoggerBeforeInit(t *testing.T) {
	require.NotNil(t, GetLogger(), "library code must always get a usable logger")
}

func TestInitAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heapdb.log")

	require.NoError(t, Init(Config{Level: "debug", OutputPath: path, Format: "json"}))
	t.Cleanup(func() { Close() })

	require.Error(t, Init(Config{Level: "info"}), "double init must fail")

	GetLogger().Info("hello")
	require.NoError(t, Close())

	// After Close, Init is allowed again.
	require.NoError(t, Init(Config{Level: "info"}))
}

func TestInitBadLevelFallsBack(t *testing.T) {
	require.NoError(t, Init(Config{Level: "nonsense"}))
	t.Cleanup(func() { Close() })
	require.NotNil(t, GetLogger())
}

func TestContextHelpers(t *testing.T) {
	require.NotNil(t, WithTx(1))
	require.NotNil(t, WithTable(2))
	require.NotNil(t, WithPage(1, 2))
	require.NotNil(t, WithComponent("heap"))
}
