package cli

import (
	"strings"
)

const shortIDLen = 8

// shortID is the id as listed. Any unique prefix resolves back to it.
func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolve finds the single item whose id is prefix or starts with it.
// kind names the list in error messages.
func resolve[T any](items []T, idOf func(T) string, prefix, kind string) (T, error) {
	var zero T
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return zero, usagef("%s id is empty", kind)
	}
	var (
		found T
		n     int
	)
	for _, it := range items {
		id := strings.ToLower(idOf(it))
		if id == prefix {
			return it, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = it
			n++
		}
	}
	switch n {
	case 0:
		return zero, usagef("no %s matches %q", kind, prefix)
	case 1:
		return found, nil
	}
	return zero, usagef("%q matches %d %ss, type more of the id", prefix, n, kind)
}
