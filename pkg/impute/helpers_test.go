package impute

import (
	"time"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// Cell helpers: a nil argument becomes a null cell.

func ints(name string, vals ...any) *fr.IntColumn {
	c := fr.NewIntColumn(name, 0)
	for _, v := range vals {
		if v == nil {
			c.AppendNull()
			continue
		}
		c.Append(int64(v.(int)))
	}
	return c
}

func floats(name string, vals ...any) *fr.FloatColumn {
	c := fr.NewFloatColumn(name, 0)
	for _, v := range vals {
		if v == nil {
			c.AppendNull()
			continue
		}
		c.Append(v.(float64))
	}
	return c
}

func strs(name string, vals ...any) *fr.StringColumn {
	c := fr.NewStringColumn(name, 0)
	for _, v := range vals {
		if v == nil {
			c.AppendNull()
			continue
		}
		c.Append(v.(string))
	}
	return c
}

func bools(name string, vals ...any) *fr.BoolColumn {
	c := fr.NewBoolColumn(name, 0)
	for _, v := range vals {
		if v == nil {
			c.AppendNull()
			continue
		}
		c.Append(v.(bool))
	}
	return c
}

func times(name string, vals ...any) *fr.TimeColumn {
	c := fr.NewTimeColumn(name, 0)
	for _, v := range vals {
		if v == nil {
			c.AppendNull()
			continue
		}
		c.Append(v.(time.Time))
	}
	return c
}

func mustFrame(cols ...fr.Column) *fr.Frame {
	f, err := fr.FromColumns(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

func cell(f *fr.Frame, name string, row int) any {
	c, _ := f.ColumnByName(name)
	return fr.CellValue(c, row)
}
