package images

import (
	"fmt"
	"strings"
)

// Category is one of the three output routes an image can be sorted into.
type Category int

const (
	Favorite Category = iota
	Keep
	Delete
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Favorite, Keep, Delete}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= Favorite && c <= Delete
}

func (c Category) String() string {
	switch c {
	case Favorite:
		return "favorite"
	case Keep:
		return "keep"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// FolderName is the default directory name for the category.
func (c Category) FolderName() string {
	switch c {
	case Favorite:
		return "Favorites"
	case Keep:
		return "Keep"
	case Delete:
		return "Delete"
	}
	return ""
}

// ParseCategory accepts a category name or its folder name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "favorite", "favorites", "fav":
		return Favorite, nil
	case "keep":
		return Keep, nil
	case "delete":
		return Delete, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}
