package locale

import (
	"fmt"

	"github.com/golang/groupcache/lru"
)

// Catalog resolves locale tags. Registered packs win over CLDR-derived data;
// derived entries are kept in a bounded LRU.
type Catalog struct {
	packs   map[string]*Locale
	derived *lru.Cache
}

// NewCatalog constructs a catalog caching up to size derived locales.
func NewCatalog(size int) *Catalog {
	if size <= 0 {
		size = 32
	}
	return &Catalog{
		packs:   make(map[string]*Locale),
		derived: lru.New(size),
	}
}

// Add registers a locale pack under its canonical name.
func (c *Catalog) Add(loc *Locale) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	key := loc.Name
	if canonical, err := CanonicalTag(loc.Name); err == nil {
		key = canonical
	}
	c.packs[key] = loc
	c.derived.Remove(key)
	return nil
}

// LoadFiles registers every pack in paths.
func (c *Catalog) LoadFiles(paths ...string) error {
	for _, path := range paths {
		loc, err := Load(path)
		if err != nil {
			return err
		}
		if err := c.Add(loc); err != nil {
			return fmt.Errorf("locale: %s: %w", path, err)
		}
	}
	return nil
}

// Lookup resolves tag to a locale. An empty tag yields Default.
func (c *Catalog) Lookup(tag string) (*Locale, error) {
	if tag == "" {
		return Default(), nil
	}
	if loc, ok := c.packs[tag]; ok {
		return loc, nil
	}
	key, err := CanonicalTag(tag)
	if err != nil {
		return nil, err
	}
	if loc, ok := c.packs[key]; ok {
		return loc, nil
	}
	if cached, ok := c.derived.Get(key); ok {
		return cached.(*Locale), nil
	}
	loc, err := FromTag(key)
	if err != nil {
		return nil, err
	}
	c.derived.Add(key, loc)
	return loc, nil
}

// Len reports registered packs plus cached derived locales.
func (c *Catalog) Len() int {
	return len(c.packs) + c.derived.Len()
}
