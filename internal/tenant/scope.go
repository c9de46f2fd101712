package tenant

import "gorm.io/gorm"

// Scope restricts a query to one organization. Every tenant-owned table keeps
// an organization_id column for this. The id may be a string or a uuid.UUID;
// the driver serializes both the same way.
func Scope(organizationID any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}
