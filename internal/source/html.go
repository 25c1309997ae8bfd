package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// ParseHTMLTable reads the first <table> in a saved item listing. Its
// header row must name an "id" and a "name" column; any column whose
// header starts with "recipe" is read as a recipe.
func ParseHTMLTable(r io.Reader) ([]item.RawItem, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := find(doc, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("%w: no <table> found", internalerr.ErrInvalidInput)
	}

	var rows [][]string
	walk(table, func(n *html.Node) bool {
		if n.DataAtom != atom.Tr {
			return true
		}
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, text(c))
			}
		}
		rows = append(rows, cells)
		return false
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", internalerr.ErrInvalidInput)
	}

	idCol, nameCol := -1, -1
	var recipeCols []int
	for i, h := range rows[0] {
		switch h = strings.ToLower(h); {
		case h == "id":
			idCol = i
		case h == "name":
			nameCol = i
		case strings.HasPrefix(h, "recipe"):
			recipeCols = append(recipeCols, i)
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("%w: header must name id and name columns", internalerr.ErrInvalidInput)
	}

	items := make([]item.RawItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		it := item.RawItem{ID: cell(row, idCol), Name: cell(row, nameCol)}
		for _, c := range recipeCols {
			if rec := cell(row, c); rec != "" {
				it.Recipes = append(it.Recipes, rec)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func find(n *html.Node, a atom.Atom) *html.Node {
	var out *html.Node
	walk(n, func(c *html.Node) bool {
		if out != nil {
			return false
		}
		if c.DataAtom == a {
			out = c
			return false
		}
		return true
	})
	return out
}

// walk visits n and its descendants depth first; fn returns false to skip
// a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n.Type == html.ElementNode || n.Type == html.DocumentNode {
		if !fn(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
