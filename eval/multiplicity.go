package eval

import (
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/value"
)

// expand computes multiplicity: every list-valued argument bound to a
// non-list parameter contributes its elements as alternatives, and the
// call instantiates once per combination. Combinations enumerate in
// row-major order over parameter declaration order, so the last expanded
// parameter varies fastest. A call with no list arguments yields the
// single original tuple.
func expand(params []sym.Param, args *value.Tuple) []*value.Tuple {
	type axis struct {
		index int
		items []value.Value
	}

	var axes []axis

	for i, field := range args.Fields {
		if field.Value.Kind != value.KindList {
			continue
		}

		if i < len(params) && params[i].Type.Kind == value.KindList {
			continue
		}

		axes = append(axes, axis{index: i, items: field.Value.List})
	}

	if len(axes) == 0 {
		return []*value.Tuple{args}
	}

	total := 1
	for _, ax := range axes {
		total *= len(ax.items)
	}

	if total == 0 {
		return nil
	}

	combos := make([]*value.Tuple, 0, total)

	counters := make([]int, len(axes))

	for n := 0; n < total; n++ {
		fields := make([]value.Field, len(args.Fields))
		copy(fields, args.Fields)

		for k, ax := range axes {
			fields[ax.index].Value = ax.items[counters[k]]
		}

		combos = append(combos, &value.Tuple{Fields: fields})

		// Increment odometer-style from the last axis, so earlier
		// parameters vary slowest.
		for k := len(axes) - 1; k >= 0; k-- {
			counters[k]++
			if counters[k] < len(axes[k].items) {
				break
			}

			counters[k] = 0
		}
	}

	return combos
}
