// Package export writes classified catalogs to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/analytics"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// File names written next to the per-type files.
const (
	AllItemsFile = "all-items.json"
	StatsFile    = "conversion-stats.json"
)

// TypeFile returns the per-type output name, e.g. "weapons.json".
func TypeFile(t item.Type) string {
	return string(t) + "s.json"
}

// WriteJSON writes one file per type that has items plus all-items.json,
// and returns the paths written.
func WriteJSON(dir string, items []item.Item) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	byType := group(items)
	var written []string
	for _, t := range item.Types() {
		list, ok := byType[t]
		if !ok {
			continue
		}
		p := filepath.Join(dir, TypeFile(t))
		if err := writeJSONFile(p, list); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	all := items
	if all == nil {
		all = []item.Item{}
	}
	p := filepath.Join(dir, AllItemsFile)
	if err := writeJSONFile(p, all); err != nil {
		return written, err
	}
	return append(written, p), nil
}

// WriteStats writes conversion-stats.json into dir.
func WriteStats(dir string, stats analytics.Stats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	p := filepath.Join(dir, StatsFile)
	return p, writeJSONFile(p, stats)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// group buckets items by type; types outside the enum are grouped too.
func group(items []item.Item) map[item.Type][]item.Item {
	out := make(map[item.Type][]item.Item)
	for _, it := range items {
		out[it.Type] = append(out[it.Type], it)
	}
	return out
}

// Columns is the header row of every XLSX sheet.
var Columns = []string{
	"ID", "Name", "Type", "Category", "Subcategory", "SubSubcategory",
	"Rarity", "Game Stage", "Acquisition", "Collection Type", "Icon", "Owned",
}

// AllSheet is the first sheet of the workbook and holds every item.
const AllSheet = "All Items"

// WriteXLSX writes a workbook with an "All Items" sheet followed by one
// sheet per type present in items.
func WriteXLSX(path string, items []item.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AllSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, AllSheet, items); err != nil {
		return err
	}

	byType := group(items)
	for _, t := range item.Types() {
		list, ok := byType[t]
		if !ok {
			continue
		}
		name := sheetName(t)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, list); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetName(t item.Type) string {
	s := string(t)
	if s == "" {
		return "Untyped"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeSheet(f *excelize.File, sheet string, items []item.Item) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			it.ID, it.Name, string(it.Type), it.Category, it.Subcategory, it.SubSubcategory,
			string(it.Rarity), string(it.GameStage), joinAcquisition(it.Acquisition),
			string(it.CollectionType), it.IconPath, it.Owned,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func joinAcquisition(as []item.Acquisition) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
