package docstore

type arrayUnion struct{ elems []any }
type arrayRemove struct{ elems []any }
type deleteField struct{}

// ArrayUnion adds elems not already present in the array field.
func ArrayUnion(elems ...any) any { return arrayUnion{elems: elems} }

// ArrayRemove removes every occurrence of elems from the array field.
func ArrayRemove(elems ...any) any { return arrayRemove{elems: elems} }

// Delete removes the field.
var Delete any = deleteField{}

func applyUnion(current any, elems []any) []any {
	out := toSlice(current)
	for _, e := range elems {
		e = normalize(e)
		if !containsValue(out, e) {
			out = append(out, e)
		}
	}
	return out
}

func applyRemove(current any, elems []any) []any {
	in := toSlice(current)
	out := make([]any, 0, len(in))
	for _, v := range in {
		if !containsValue(elems, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsValue(list []any, v any) bool {
	for _, e := range list {
		if equalValues(e, v) {
			return true
		}
	}
	return false
}
