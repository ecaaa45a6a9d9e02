package models

import (
	"strings"

	"gorm.io/gorm"
)

// AdminPermissions restricts which applications an admin may see and act on.
// Every axis is optional: an empty axis means no restriction, populated axes
// are combined with AND. Super admins never go through this type.
type AdminPermissions struct {
	Countries  []string `gorm:"serializer:json;type:text" json:"countries"`
	AssetTypes []string `gorm:"serializer:json;type:text" json:"asset_types"`
	MinAmount  *float64 `gorm:"type:decimal(15,2)" json:"min_amount"`
	MaxAmount  *float64 `gorm:"type:decimal(15,2)" json:"max_amount"`
}

func (p AdminPermissions) IsUnrestricted() bool {
	return len(p.Countries) == 0 && len(p.AssetTypes) == 0 && p.MinAmount == nil && p.MaxAmount == nil
}

// Allows reports whether the application satisfies every populated axis.
// The asset-type axis is a case-insensitive substring match against the
// investment name; see DeriveAssetType for why this stays a heuristic.
func (p AdminPermissions) Allows(app *Application) bool {
	if len(p.Countries) > 0 {
		found := false
		for _, c := range p.Countries {
			if c == app.Country {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(p.AssetTypes) > 0 {
		name := strings.ToLower(app.InvestmentName)
		found := false
		for _, t := range p.AssetTypes {
			if t == "" {
				continue
			}
			if strings.Contains(name, strings.ToLower(t)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if p.MinAmount != nil && app.InvestmentAmount < *p.MinAmount {
		return false
	}
	if p.MaxAmount != nil && app.InvestmentAmount > *p.MaxAmount {
		return false
	}

	return true
}

// Scope applies the same restrictions as Allows to an applications query.
// Both must stay in lockstep: a scoped listing returns exactly the rows
// Allows accepts.
func (p AdminPermissions) Scope(q *gorm.DB) *gorm.DB {
	if len(p.Countries) > 0 {
		q = q.Where("country IN ?", p.Countries)
	}

	if len(p.AssetTypes) > 0 {
		group := q.Session(&gorm.Session{NewDB: true})
		first := true
		for _, t := range p.AssetTypes {
			if t == "" {
				continue
			}
			pattern := "%" + strings.ToLower(t) + "%"
			if first {
				group = group.Where("LOWER(investment_name) LIKE ?", pattern)
				first = false
			} else {
				group = group.Or("LOWER(investment_name) LIKE ?", pattern)
			}
		}
		if !first {
			q = q.Where(group)
		}
	}

	if p.MinAmount != nil {
		q = q.Where("investment_amount >= ?", *p.MinAmount)
	}
	if p.MaxAmount != nil {
		q = q.Where("investment_amount <= ?", *p.MaxAmount)
	}

	return q
}
