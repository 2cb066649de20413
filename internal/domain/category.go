package domain

import (
	"strconv"
	"strings"
)

// Category is a node of the catalog tree. Path holds the ids of all
// ancestors joined and wrapped by "-", e.g. "-1-4-" for a node below 4,
// which itself is below 1. Roots have the path "-".
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ParentID    *int64 `db:"parent_id" json:"parent_id"`
	IsDirectory bool   `db:"is_directory" json:"is_directory"`
	Level       int    `db:"level" json:"level"`
	Path        string `db:"path" json:"path"`
}

// DescendantPathPrefix is the path shared by the node's children and every
// node beneath them.
func (c Category) DescendantPathPrefix() string {
	return c.Path + strconv.FormatInt(c.ID, 10) + "-"
}

// AncestorIDs returns the ids encoded in Path, root first.
func (c Category) AncestorIDs() []int64 {
	var ids []int64
	for _, part := range strings.Split(c.Path, "-") {
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}
