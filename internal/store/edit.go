package store

// Copy-on-write list edits for use inside Update.

// Append returns a new slice holding items followed by v.
func Append[T any](items []T, v ...T) []T {
	out := make([]T, 0, len(items)+len(v))
	out = append(out, items...)
	return append(out, v...)
}

// ReplaceWhere returns a copy of items where every element matching match
// is replaced by fn(element). changed is false when nothing matched.
func ReplaceWhere[T any](items []T, match func(T) bool, fn func(T) T) (out []T, changed bool) {
	out = make([]T, len(items))
	for i, it := range items {
		if match(it) {
			it = fn(it)
			changed = true
		}
		out[i] = it
	}
	if !changed {
		return items, false
	}
	return out, true
}

// RemoveWhere returns a copy of items without the elements matching match.
func RemoveWhere[T any](items []T, match func(T) bool) (out []T, changed bool) {
	out = make([]T, 0, len(items))
	for _, it := range items {
		if match(it) {
			changed = true
			continue
		}
		out = append(out, it)
	}
	if !changed {
		return items, false
	}
	return out, true
}
