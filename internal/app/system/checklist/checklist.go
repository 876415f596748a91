// Package checklist holds the in-memory edits applied to an organization's
// inspection checklist. Every function is pure: the input slice is never
// modified and a new slice is returned. Callers persist the result with a
// full overwrite.
package checklist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/fleetcheckr/internal/app/system/ids"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
)

// DefaultIcon is used when a category is created without one.
const DefaultIcon = "Cog"

var (
	ErrIndexOutOfRange   = errors.New("checklist: index out of range")
	ErrCrossCategoryMove = errors.New("checklist: items can only be reordered within their own category")
	ErrCategoryNotFound  = errors.New("checklist: category not found")
	ErrItemNotFound      = errors.New("checklist: item not found")
	ErrNameRequired      = errors.New("checklist: name is required")
)

// FlatItem is one checklist item with its category, in display order.
type FlatItem struct {
	ItemID       string
	CategoryID   string
	CategoryName string
	Name         string
	Description  string
}

// Clone deep-copies a category list. A nil input stays nil.
func Clone(cats []models.Category) []models.Category {
	if cats == nil {
		return nil
	}
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		out[i] = c
		out[i].Items = append([]models.Item(nil), c.Items...)
		if c.Items != nil && out[i].Items == nil {
			out[i].Items = []models.Item{}
		}
	}
	return out
}

// MoveWithinList removes the element at from and inserts it at to.
// Moving an element onto its own position returns an identical copy.
func MoveWithinList[T any](list []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: from=%d to=%d len=%d", ErrIndexOutOfRange, from, to, len(list))
	}
	out := make([]T, 0, len(list))
	moved := list[from]
	for i, v := range list {
		if i != from {
			out = append(out, v)
		}
	}
	out = append(out, moved) // grow by one; shifted below
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out, nil
}

// IndexOfCategory returns the position of the category with id, or -1.
func IndexOfCategory(cats []models.Category, id string) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func indexOfItem(items []models.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// AddCategory appends a new, empty category with a generated id.
func AddCategory(cats []models.Category, name, icon string) ([]models.Category, models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Category{}, ErrNameRequired
	}
	if strings.TrimSpace(icon) == "" {
		icon = DefaultIcon
	}
	c := models.Category{ID: ids.ChecklistID(), Name: name, Icon: icon, Items: []models.Item{}}
	out := append(Clone(cats), c)
	return out, c, nil
}

// UpdateCategory renames a category and changes its icon. The id is kept,
// and an empty icon leaves the current one in place.
func UpdateCategory(cats []models.Category, id, name, icon string) ([]models.Category, error) {
	i := IndexOfCategory(cats, id)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	out := Clone(cats)
	out[i].Name = name
	if icon = strings.TrimSpace(icon); icon != "" {
		out[i].Icon = icon
	}
	return out, nil
}

// DeleteCategory removes a category together with all of its items.
func DeleteCategory(cats []models.Category, id string) ([]models.Category, error) {
	i := IndexOfCategory(cats, id)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	out := Clone(cats)
	return append(out[:i], out[i+1:]...), nil
}

// AddItem appends a new item with a generated id to a category.
func AddItem(cats []models.Category, categoryID, name, description string) ([]models.Category, models.Item, error) {
	i := IndexOfCategory(cats, categoryID)
	if i < 0 {
		return nil, models.Item{}, ErrCategoryNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Item{}, ErrNameRequired
	}
	it := models.Item{ID: ids.ChecklistID(), Name: name, Description: strings.TrimSpace(description)}
	out := Clone(cats)
	out[i].Items = append(out[i].Items, it)
	return out, it, nil
}

// UpdateItem edits an item's name and description, keeping its id.
func UpdateItem(cats []models.Category, categoryID, itemID, name, description string) ([]models.Category, error) {
	i := IndexOfCategory(cats, categoryID)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	j := indexOfItem(cats[i].Items, itemID)
	if j < 0 {
		return nil, ErrItemNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	out := Clone(cats)
	out[i].Items[j].Name = name
	out[i].Items[j].Description = strings.TrimSpace(description)
	return out, nil
}

// DeleteItem removes one item from a category.
func DeleteItem(cats []models.Category, categoryID, itemID string) ([]models.Category, error) {
	i := IndexOfCategory(cats, categoryID)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	j := indexOfItem(cats[i].Items, itemID)
	if j < 0 {
		return nil, ErrItemNotFound
	}
	out := Clone(cats)
	out[i].Items = append(out[i].Items[:j], out[i].Items[j+1:]...)
	return out, nil
}

// MoveCategory reorders categories.
func MoveCategory(cats []models.Category, from, to int) ([]models.Category, error) {
	moved, err := MoveWithinList(cats, from, to)
	if err != nil {
		return nil, err
	}
	return Clone(moved), nil
}

// MoveItem reorders an item inside its category. A drag whose source and
// destination categories differ is rejected.
func MoveItem(cats []models.Category, fromCategoryID, toCategoryID string, from, to int) ([]models.Category, error) {
	if fromCategoryID != toCategoryID {
		return nil, ErrCrossCategoryMove
	}
	i := IndexOfCategory(cats, fromCategoryID)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	items, err := MoveWithinList(cats[i].Items, from, to)
	if err != nil {
		return nil, err
	}
	out := Clone(cats)
	out[i].Items = items
	return out, nil
}

// Flatten lists every item in category order, then item order.
func Flatten(cats []models.Category) []FlatItem {
	var n int
	for _, c := range cats {
		n += len(c.Items)
	}
	out := make([]FlatItem, 0, n)
	for _, c := range cats {
		for _, it := range c.Items {
			out = append(out, FlatItem{
				ItemID:       it.ID,
				CategoryID:   c.ID,
				CategoryName: c.Name,
				Name:         it.Name,
				Description:  it.Description,
			})
		}
	}
	return out
}

// Validate checks a full category list before it is saved: ids and names
// must be present and every id must be unique across the document.
func Validate(cats []models.Category) error {
	seen := make(map[string]bool)
	for ci, c := range cats {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("category %d: id is required", ci)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %q: %w", c.ID, ErrNameRequired)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
		for ii, it := range c.Items {
			if strings.TrimSpace(it.ID) == "" {
				return fmt.Errorf("category %q item %d: id is required", c.ID, ii)
			}
			if strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("item %q: %w", it.ID, ErrNameRequired)
			}
			if seen[it.ID] {
				return fmt.Errorf("duplicate id %q", it.ID)
			}
			seen[it.ID] = true
		}
	}
	return nil
}
