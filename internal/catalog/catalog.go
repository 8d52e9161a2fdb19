// Package catalog is the read-only kitchen list the guarded screens render.
package catalog

import (
	"fmt"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
)

// Kitchen is one canteen site.
type Kitchen struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Catalog indexes kitchens by id and slug, preserving insertion order.
type Catalog struct {
	kitchens []Kitchen
	byID     map[string]int
	bySlug   map[string]int
}

// New builds a catalog. Ids and slugs must be non-empty and unique.
func New(kitchens ...Kitchen) (*Catalog, error) {
	c := &Catalog{
		kitchens: make([]Kitchen, 0, len(kitchens)),
		byID:     make(map[string]int, len(kitchens)),
		bySlug:   make(map[string]int, len(kitchens)),
	}
	for _, k := range kitchens {
		if k.ID == "" || k.Slug == "" {
			return nil, fmt.Errorf("kitchen %q: id and slug are required", k.Name)
		}
		if _, dup := c.byID[k.ID]; dup {
			return nil, fmt.Errorf("duplicate kitchen id %q", k.ID)
		}
		if _, dup := c.bySlug[k.Slug]; dup {
			return nil, fmt.Errorf("duplicate kitchen slug %q", k.Slug)
		}
		c.byID[k.ID] = len(c.kitchens)
		c.bySlug[k.Slug] = len(c.kitchens)
		c.kitchens = append(c.kitchens, k)
	}
	return c, nil
}

// Default returns the seeded canteen kitchens.
func Default() *Catalog {
	c, err := New(
		Kitchen{ID: "k1", Name: "Bếp Samsung", Slug: "ss"},
		Kitchen{ID: "k2", Name: "Bếp Goertek", Slug: "gt"},
		Kitchen{ID: "k3", Name: "Bếp TP.Link", Slug: "tplink"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every kitchen in catalog order.
func (c *Catalog) All() []Kitchen {
	out := make([]Kitchen, len(c.kitchens))
	copy(out, c.kitchens)
	return out
}

// BySlug finds a kitchen by its URL slug.
func (c *Catalog) BySlug(slug string) (Kitchen, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Kitchen{}, apperrors.NotFoundf("kitchen %q not found", slug)
	}
	return c.kitchens[i], nil
}

// ByID finds a kitchen by id.
func (c *Catalog) ByID(id string) (Kitchen, error) {
	i, ok := c.byID[id]
	if !ok {
		return Kitchen{}, apperrors.NotFoundf("kitchen %q not found", id)
	}
	return c.kitchens[i], nil
}

// ForSession returns the kitchens a session may administer: all of them for
// ADMIN, the managed one for KITCHEN_MANAGER, none otherwise.
func (c *Catalog) ForSession(sess domainauth.Session) []Kitchen {
	switch sess.Role {
	case domainauth.RoleAdmin:
		return c.All()
	case domainauth.RoleKitchenManager:
		k, err := c.ByID(sess.ManagedKitchenID)
		if err != nil {
			return []Kitchen{}
		}
		return []Kitchen{k}
	default:
		return []Kitchen{}
	}
}
