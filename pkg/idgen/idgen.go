// Package idgen produces opaque, time-sortable identifiers.
package idgen

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Generator returns a new identifier carrying the given prefix.
type Generator func(prefix string) string

// New returns prefix + "_" + a lowercase ULID. An empty prefix yields the bare ULID.
func New(prefix string) string {
	id := strings.ToLower(ulid.Make().String())
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
