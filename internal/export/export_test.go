package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/analytics"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

func sample() []item.Item {
	c := classify.Default()
	return []item.Item{
		c.Item(item.RawItem{ID: "copper-shortsword", Name: "Copper Shortsword"}),
		c.Item(item.RawItem{ID: "iron-helmet", Name: "Iron Helmet", Recipes: []string{"Iron Bar"}}),
		c.Item(item.RawItem{ID: "night-edge", Name: "Night's Edge Sword"}),
	}
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteJSON(dir, sample())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "weapons.json"),
		filepath.Join(dir, "armors.json"),
		filepath.Join(dir, AllItemsFile),
	}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "weapons.json"))
	require.NoError(t, err)
	var weapons []item.Item
	require.NoError(t, json.Unmarshal(data, &weapons))
	require.Len(t, weapons, 2)
	assert.Equal(t, "copper-shortsword", weapons[0].ID)

	data, err = os.ReadFile(filepath.Join(dir, AllItemsFile))
	require.NoError(t, err)
	var all []item.Item
	require.NoError(t, json.Unmarshal(data, &all))
	assert.Len(t, all, 3)
}

func TestWriteJSONEmpty(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteJSON(dir, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestWriteStats(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteStats(dir, analytics.Summarize(sample()))
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.EqualValues(t, 3, got["totalItems"])
	assert.EqualValues(t, 2, got["byType"].(map[string]any)["weapon"])
}

func TestWriteXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, WriteXLSX(p, sample()))

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{AllSheet, "Weapon", "Armor"}, f.GetSheetList())

	rows, err := f.GetRows(AllSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Copper Shortsword", rows[1][1])

	rows, err = f.GetRows("Armor")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "craft", rows[1][8])
}
