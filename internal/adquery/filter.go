// Package adquery builds the composable listing query. Each optional
// filter compiles to one gorm scope; a filter that was not supplied adds
// no scope at all, so the empty Filter matches every ad. Scopes combine
// by conjunction when applied to a query.
package adquery

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/domain"
)

type Scope = func(*gorm.DB) *gorm.DB

// Filter holds the optional listing filters. Zero values (empty strings,
// nil pointers) mean "not supplied".
type Filter struct {
	Category string
	Name     string
	MinPrice *float64
	MaxPrice *float64
	OwnerID  *uuid.UUID
}

// Scopes compiles the supplied filters, in declaration order. Order is
// irrelevant to the result since the scopes AND together.
func (f Filter) Scopes() []Scope {
	var scopes []Scope
	if f.Category != "" {
		scopes = append(scopes, HasCategory(f.Category))
	}
	if f.Name != "" {
		scopes = append(scopes, NameContains(f.Name))
	}
	if f.MinPrice != nil {
		scopes = append(scopes, PriceAtLeast(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		scopes = append(scopes, PriceAtMost(*f.MaxPrice))
	}
	if f.OwnerID != nil {
		scopes = append(scopes, OwnedBy(*f.OwnerID))
	}
	return scopes
}

// HasCategory matches ads in the given category, case-insensitively.
// A value outside the category set matches no rows; that is a policy
// decision, not an error, and is distinct from omitting the filter.
func HasCategory(raw string) Scope {
	category, err := domain.ParseCategory(raw)
	if err != nil {
		return MatchNone()
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	}
}

// NameContains matches ads whose name contains the given substring,
// case-insensitively.
func NameContains(name string) Scope {
	pattern := "%" + strings.ToLower(name) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ?", pattern)
	}
}

// PriceAtLeast is an inclusive lower price bound.
func PriceAtLeast(min float64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("price >= ?", min)
	}
}

// PriceAtMost is an inclusive upper price bound.
func PriceAtMost(max float64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("price <= ?", max)
	}
}

// OwnedBy matches ads belonging to the given user.
func OwnedBy(ownerID uuid.UUID) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

// MatchNone yields an always-false predicate.
func MatchNone() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}
