// Package catalog holds the café's orderable items and prices.
// The item list is loaded once at startup and is read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by PriceOf for unknown item names.
var ErrNotFound = errors.New("catalog: item not found")

// Entry is a single orderable item. Price is in whole rubles.
type Entry struct {
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
}

// Label renders the menu button text for the entry.
func (e Entry) Label() string {
	return fmt.Sprintf("%s — %d₽", e.Name, e.Price)
}

// Catalog is an ordered, immutable collection of entries with unique names.
type Catalog struct {
	entries []Entry
	byName  map[string]int
	byLabel map[string]int
}

// New builds a catalog from the given entries. Entry order is preserved;
// duplicate names and non-positive prices are rejected.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog: empty item list")
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byLabel: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("catalog: entry with empty name")
		}
		if e.Price <= 0 {
			return nil, fmt.Errorf("catalog: item %q has non-positive price %d", e.Name, e.Price)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", e.Name)
		}
		idx := len(c.entries)
		c.entries = append(c.entries, e)
		c.byName[e.Name] = idx
		c.byLabel[e.Label()] = idx
	}
	return c, nil
}

// Default returns the built-in fallback menu used when configuration
// is missing or malformed.
func Default() *Catalog {
	c, err := New([]Entry{
		{Name: "Кофе", Price: 200},
		{Name: "Чай", Price: 150},
		{Name: "Десерт", Price: 300},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns the entries in menu order. The caller may not mutate
// the catalog through the returned slice.
func (c *Catalog) Items() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// PriceOf returns the price of the named item or ErrNotFound.
func (c *Catalog) PriceOf(name string) (int, error) {
	idx, ok := c.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.entries[idx].Price, nil
}

// Lookup resolves a menu button label back to its entry.
func (c *Catalog) Lookup(label string) (Entry, bool) {
	idx, ok := c.byLabel[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Labels returns the menu button texts in menu order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Label()
	}
	return out
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	return len(c.entries)
}
