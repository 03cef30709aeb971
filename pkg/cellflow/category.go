package cellflow

// Category classifies the shape of a property's value. The shape of
// reactivity must match the shape of the value: when a write changes the
// category of a non-static, non-auto cell, the cell is discarded and
// rebuilt against the new category instead of mutated in place.
type Category uint8

const (
	// CategoryNil is the category of nil values.
	CategoryNil Category = iota

	// CategorySimple covers raw scalars and any value with no richer shape.
	CategorySimple

	// CategoryAuto covers function-derived cells. Auto cells never
	// rebuild on category change.
	CategoryAuto

	// CategoryObject covers nested field tables.
	CategoryObject

	// CategorySequence covers ordered collections.
	CategorySequence
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryNil:
		return "nil"
	case CategorySimple:
		return "simple"
	case CategoryAuto:
		return "auto"
	case CategoryObject:
		return "object"
	case CategorySequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// CategoryOf classifies a raw value.
func CategoryOf(v any) Category {
	switch v.(type) {
	case nil:
		return CategoryNil
	case func() any:
		return CategoryAuto
	case *Sequence, []any:
		return CategorySequence
	case *Core, map[string]any:
		return CategoryObject
	default:
		return CategorySimple
	}
}
