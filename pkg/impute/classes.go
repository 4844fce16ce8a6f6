package impute

import (
	"fmt"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// MissingClass is the class key given to rows whose target cell is null.
const MissingClass = "<missing>"

// wholeColumn is the single class used when a transform has no grouping column.
const wholeColumn = "*"

// classIndex partitions row positions by target class. Classes keep the order
// in which they first appear in the target column. Rows with a null target
// share the class at position null (-1 when there are none); it is labelled
// MissingClass but never merged with a target value of the same text.
type classIndex struct {
	keys  []string
	rows  [][]int
	ofRow []int
	null  int
}

func groupRows(f *fr.Frame, by string) (*classIndex, error) {
	idx := &classIndex{ofRow: make([]int, f.Rows()), null: -1}
	if by == "" {
		all := make([]int, f.Rows())
		for i := range all {
			all[i] = i
		}
		idx.keys = []string{wholeColumn}
		idx.rows = [][]int{all}
		return idx, nil
	}
	col, ok := f.ColumnByName(by)
	if !ok {
		return nil, fmt.Errorf("unknown grouping column: %s", by)
	}
	pos := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		key, ok := fr.FormatCell(col, i)
		p, seen := pos[key]
		switch {
		case !ok:
			if idx.null < 0 {
				idx.null = idx.add(MissingClass)
			}
			p = idx.null
		case !seen:
			p = idx.add(key)
			pos[key] = p
		}
		idx.rows[p] = append(idx.rows[p], i)
		idx.ofRow[i] = p
	}
	return idx, nil
}

func (idx *classIndex) add(key string) int {
	idx.keys = append(idx.keys, key)
	idx.rows = append(idx.rows, nil)
	return len(idx.keys) - 1
}

func (idx *classIndex) len() int { return len(idx.keys) }
