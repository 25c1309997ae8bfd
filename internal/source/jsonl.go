package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

const maxLine = 1 << 20

// ReadJSONL reads one raw item per line. Blank lines are ignored and
// malformed lines are skipped with a warning.
func ReadJSONL(r io.Reader, log *zap.Logger) ([]item.RawItem, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		items   []item.RawItem
		skipped int
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			log.Warn("skipping non-object line", zap.Int("line", lineNo))
			skipped++
			continue
		}
		var it item.RawItem
		if err := json.Unmarshal([]byte(line), &it); err != nil {
			log.Warn("skipping malformed line", zap.Int("line", lineNo), zap.Error(err))
			skipped++
			continue
		}
		items = append(items, it)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if len(items) == 0 && skipped > 0 {
		return nil, fmt.Errorf("%w: no valid lines (%d skipped)", internalerr.ErrInvalidInput, skipped)
	}
	return items, nil
}
