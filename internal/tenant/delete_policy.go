package tenant

import "strings"

// DeletePolicy decides what happens to dependent rows when an organization or
// session is deleted. The store enforces no foreign-key cascades, so the
// choice is made explicitly here instead of being assumed: "orphan" reproduces
// the historical behavior of leaving dependent records behind, "cascade"
// removes them in the same transaction.
type DeletePolicy string

const (
	DeleteOrphan  DeletePolicy = "orphan"
	DeleteCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy reads the policy from configuration, defaulting to orphan.
func ParseDeletePolicy(s string) DeletePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(DeleteCascade)) {
		return DeleteCascade
	}
	return DeleteOrphan
}
