package domain

import (
	"fmt"
	"strings"
)

// SpecialDutyIntensity is the load a special duty adds to its worker, whatever
// intensity the catalog declares for it.
const SpecialDutyIntensity = 2

// WorkItem is one weighted unit of work in the catalog.
type WorkItem struct {
	Name      string `json:"name" yaml:"name"`
	Intensity int    `json:"intensity" yaml:"intensity"`
	Special   bool   `json:"special" yaml:"special"`
}

// NewWorkItem validates and constructs a work item.
func NewWorkItem(name string, intensity int, special bool) (WorkItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return WorkItem{}, ErrInvalidName
	}
	if intensity <= 0 {
		return WorkItem{}, fmt.Errorf("%w: %q has %d", ErrInvalidIntensity, name, intensity)
	}
	return WorkItem{
		Name:      name,
		Intensity: intensity,
		Special:   special,
	}, nil
}

// Catalog is the ordered set of work items to distribute.
type Catalog struct {
	items []WorkItem
}

// NewCatalog validates item names and intensities and keeps declaration order.
func NewCatalog(items []WorkItem) (Catalog, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]WorkItem, 0, len(items))
	for _, raw := range items {
		item, err := NewWorkItem(raw.Name, raw.Intensity, raw.Special)
		if err != nil {
			return Catalog{}, err
		}
		if _, ok := seen[item.Name]; ok {
			return Catalog{}, fmt.Errorf("%w: %q", ErrDuplicateItem, item.Name)
		}
		seen[item.Name] = struct{}{}
		out = append(out, item)
	}
	return Catalog{items: out}, nil
}

// MarkSpecial returns the items with Special set for every name in specials.
// Loaders use it to translate the configured special-duty list into typed flags.
func MarkSpecial(items []WorkItem, specials []string) []WorkItem {
	set := make(map[string]struct{}, len(specials))
	for _, name := range specials {
		set[strings.TrimSpace(name)] = struct{}{}
	}
	out := make([]WorkItem, len(items))
	for idx, item := range items {
		if _, ok := set[strings.TrimSpace(item.Name)]; ok {
			item.Special = true
		}
		out[idx] = item
	}
	return out
}

// Len returns the number of catalog items.
func (c Catalog) Len() int {
	return len(c.items)
}

// Empty reports whether the catalog holds no items.
func (c Catalog) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of all items in declaration order.
func (c Catalog) Items() []WorkItem {
	return append([]WorkItem(nil), c.items...)
}

// Specials returns the special duties in declaration order.
func (c Catalog) Specials() []WorkItem {
	out := make([]WorkItem, 0, 2)
	for _, item := range c.items {
		if item.Special {
			out = append(out, item)
		}
	}
	return out
}

// Regular returns the non-special items in declaration order.
func (c Catalog) Regular() []WorkItem {
	out := make([]WorkItem, 0, len(c.items))
	for _, item := range c.items {
		if !item.Special {
			out = append(out, item)
		}
	}
	return out
}

// Lookup finds one item by name.
func (c Catalog) Lookup(name string) (WorkItem, bool) {
	name = strings.TrimSpace(name)
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return WorkItem{}, false
}

// MaxIntensity returns the largest effective intensity an item can add to a
// worker, counting special duties at SpecialDutyIntensity.
func (c Catalog) MaxIntensity() int {
	maxValue := 0
	for _, item := range c.items {
		value := item.Intensity
		if item.Special {
			value = SpecialDutyIntensity
		}
		maxValue = max(maxValue, value)
	}
	return maxValue
}
