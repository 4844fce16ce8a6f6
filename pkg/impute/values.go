package impute

// ClassValue is the value substituted for one class of one column.
type ClassValue struct {
	Class string
	// NullTarget marks the class of rows whose target cell is null. Its Class
	// is MissingClass, which a real target value may also spell.
	NullTarget bool
	// Value is int64 or float64 for numeric columns (int64 only for whole
	// statistics of int columns), string or bool for categorical.
	Value any
	// Valid is false when the class had nothing to compute a statistic from
	// and its cells were left null.
	Valid bool
	// Fallback marks the placeholder used for a class without observations.
	Fallback bool
}

// ColumnValues records everything substituted into one column, one entry per
// class in first-seen order.
type ColumnValues struct {
	Column   string
	Strategy string
	Values   []ClassValue
}

// Get returns the entry for a non-null target value.
func (cv ColumnValues) Get(class string) (ClassValue, bool) {
	for _, v := range cv.Values {
		if v.Class == class && !v.NullTarget {
			return v, true
		}
	}
	return ClassValue{}, false
}

// NullTarget returns the entry for rows whose target is null.
func (cv ColumnValues) NullTarget() (ClassValue, bool) {
	for _, v := range cv.Values {
		if v.NullTarget {
			return v, true
		}
	}
	return ClassValue{}, false
}

// AsMap flattens the entries to class -> value, with nil for invalid ones.
// The null-target class appears under MissingClass unless a real target value
// already uses that text.
func (cv ColumnValues) AsMap() map[string]any {
	out := make(map[string]any, len(cv.Values))
	for _, v := range cv.Values {
		if v.NullTarget {
			continue
		}
		out[v.Class] = v.value()
	}
	if v, ok := cv.NullTarget(); ok {
		if _, taken := out[v.Class]; !taken {
			out[v.Class] = v.value()
		}
	}
	return out
}

func (v ClassValue) value() any {
	if v.Valid {
		return v.Value
	}
	return nil
}

// ValueMap is the imputation value map, in table column order.
type ValueMap []ColumnValues

// Column returns the entry for a column name.
func (m ValueMap) Column(name string) (ColumnValues, bool) {
	for _, cv := range m {
		if cv.Column == name {
			return cv, true
		}
	}
	return ColumnValues{}, false
}

func (m ValueMap) Empty() bool { return len(m) == 0 }
