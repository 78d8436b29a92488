package auth

import "slices"

// Predicate is a capability check on a principal. Implementations must be pure.
type Predicate func(p *Principal) bool

// Satisfies reports whether p satisfies pred. A nil principal or predicate never does.
func Satisfies(p *Principal, pred Predicate) bool {
	if p == nil || pred == nil {
		return false
	}

	return pred(p)
}

// Has is satisfied when the principal holds permission.
func Has(permission string) Predicate {
	return func(p *Principal) bool {
		return p.HasPermission(permission)
	}
}

// IsRole is satisfied when the principal's role is one of names.
func IsRole(names ...string) Predicate {
	return func(p *Principal) bool {
		return slices.Contains(names, p.RoleName())
	}
}

// IsSelfOrRole is satisfied when the principal is targetID or holds one of names.
func IsSelfOrRole(targetID uint64, names ...string) Predicate {
	isRole := IsRole(names...)

	return func(p *Principal) bool {
		return p.UserID == targetID || isRole(p)
	}
}

// AnyOf is satisfied when at least one of preds is.
func AnyOf(preds ...Predicate) Predicate {
	return func(p *Principal) bool {
		for _, pred := range preds {
			if pred != nil && pred(p) {
				return true
			}
		}

		return false
	}
}

// AllOf is satisfied when every one of preds is. An empty list is satisfied.
func AllOf(preds ...Predicate) Predicate {
	return func(p *Principal) bool {
		for _, pred := range preds {
			if pred == nil || !pred(p) {
				return false
			}
		}

		return true
	}
}
