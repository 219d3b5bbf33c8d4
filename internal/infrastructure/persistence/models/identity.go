package models

import (
	"github.com/salehub/backend/internal/domain/identity"
	"github.com/salehub/backend/internal/domain/shared"
)

// TenantRecordModel is the persistence model for the Tenant domain entity.
type TenantRecordModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	WebhookSecret string `gorm:"type:varchar(200);not null;uniqueIndex:uq_tenants_webhook_secret"`
}

// TableName returns the table name for GORM
func (TenantRecordModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantRecordModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:          m.Name,
		WebhookSecret: m.WebhookSecret,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantRecordModel) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.WebhookSecret = t.WebhookSecret
}

// TenantRecordModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantRecordModelFromDomain(t *identity.Tenant) *TenantRecordModel {
	m := &TenantRecordModel{}
	m.FromDomain(t)
	return m
}
