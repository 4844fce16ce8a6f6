// Package golearn converts cleaned Frames to and from
// github.com/sjwhitworth/golearn/base DenseInstances so an imputed table can
// go straight into a classifier.
package golearn

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

// ToDenseInstances converts f. Numeric columns become float attributes and
// everything else categorical; classColumn, when not empty, is registered as
// the class attribute. golearn has no missing values, so any null cell is an
// error: run the imputer first.
func ToDenseInstances(f *fr.Frame, classColumn string) (*base.DenseInstances, error) {
	if classColumn != "" && !f.HasColumn(classColumn) {
		return nil, fmt.Errorf("class column %q not found", classColumn)
	}
	cols := f.Columns()
	for _, c := range cols {
		if n := c.NullCount(); n > 0 {
			return nil, fmt.Errorf("column %s has %d null cells", c.Name(), n)
		}
	}

	inst := base.NewDenseInstances()
	attrs := make([]base.Attribute, len(cols))
	specs := make([]base.AttributeSpec, len(cols))
	for i, c := range cols {
		if c.Kind().Numeric() {
			attrs[i] = base.NewFloatAttribute(c.Name())
		} else {
			ca := base.NewCategoricalAttribute()
			ca.SetName(c.Name())
			attrs[i] = ca
		}
		specs[i] = inst.AddAttribute(attrs[i])
	}
	if classColumn != "" {
		for i, c := range cols {
			if c.Name() == classColumn {
				if err := inst.AddClassAttribute(attrs[i]); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for r := 0; r < f.Rows(); r++ {
		for i, c := range cols {
			switch col := c.(type) {
			case *fr.FloatColumn:
				v, _ := col.Get(r)
				inst.Set(specs[i], r, base.PackFloatToBytes(v))
			case *fr.IntColumn:
				v, _ := col.Get(r)
				inst.Set(specs[i], r, base.PackFloatToBytes(float64(v)))
			default:
				s, _ := fr.FormatCell(c, r)
				inst.Set(specs[i], r, attrs[i].GetSysValFromString(s))
			}
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn instances back into a Frame with float
// and string columns.
func FromDenseInstances(inst *base.DenseInstances) (*fr.Frame, error) {
	attrs := inst.AllAttributes()
	schema := fr.Schema{Columns: make([]fr.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := fr.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = fr.KindFloat
		}
		schema.Columns[i] = fr.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := fr.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			var v any
			if cs.Type == fr.KindFloat {
				v = base.UnpackBytesToFloat(raw)
			} else {
				v = specs[c].GetAttribute().GetStringFromSysVal(raw)
			}
			if err := f.SetCell(r, cs.Name, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
