// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantModel)
// - identity.go: tenants
// - sale.go: sales and their status history
// - webhook_log.go: raw delivery audit log
// - notification.go: notifications and push device tokens
package models
