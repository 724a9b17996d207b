// Package golearn converts finalized frames into
// github.com/sjwhitworth/golearn/base DenseInstances so downstream
// statistics and learning code can consume pipeline output.
package golearn

import (
	"github.com/sjwhitworth/golearn/base"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// ToDenseInstances converts a Frame into golearn DenseInstances. Numeric
// columns map to float attributes, everything else to categorical ones;
// NA cells are left at the attribute default.
func ToDenseInstances(f *tt.Frame) (*base.DenseInstances, error) {
	cols := f.Schema().Columns
	attrs := make([]base.Attribute, len(cols))
	for i, cs := range cols {
		switch cs.Type {
		case tt.KindFloat, tt.KindInt:
			attrs[i] = base.NewFloatAttribute(cs.Name)
		default:
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for r := 0; r < f.Rows(); r++ {
		for c, cs := range cols {
			col, _ := f.ColumnByName(cs.Name)
			switch cs.Type {
			case tt.KindFloat, tt.KindInt:
				if v, ok, _ := f.NumericCell(r, cs.Name); ok {
					inst.Set(specs[c], r, base.PackFloatToBytes(v))
				}
			default:
				if sc, ok := col.(*tt.StringColumn); ok {
					if v, ok := sc.Get(r); ok {
						inst.Set(specs[c], r, base.Attribute.GetSysValFromString(attrs[c], v))
					}
				}
			}
		}
	}
	if len(attrs) > 0 {
		if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}
