package dbmigrate

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceHasCatalogSchema(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, identifier, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_catalog", identifier)

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	for _, table := range []string{"artists", "albums", "tracks"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, string(body), "ON DELETE CASCADE")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()

	body, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(body), "DROP TABLE IF EXISTS tracks")
}
