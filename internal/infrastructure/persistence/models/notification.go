package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salehub/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for an in-app notification
type NotificationModel struct {
	TenantModel
	Title   string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text;not null"`
	Type    string `gorm:"type:varchar(30);not null"`
	SaleID  string `gorm:"type:varchar(200);not null;index"`
	Read    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationModelFromDomain creates a persistence model from a notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		Title:   n.Title,
		Message: n.Message,
		Type:    string(n.Type),
		SaleID:  n.SaleID,
		Read:    n.Read,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	m.TenantID = n.TenantID
	return m
}

// ToDomain converts the persistence model to a notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Title:      m.Title,
		Message:    m.Message,
		Type:       notification.Kind(m.Type),
		SaleID:     m.SaleID,
		Read:       m.Read,
	}
}

// DeviceTokenModel is a push registration
type DeviceTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_device_tokens_registration,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_device_tokens_registration,priority:2"`
	Token     string    `gorm:"type:varchar(500);not null;uniqueIndex:uq_device_tokens_registration,priority:3"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}

// ToDomain converts the persistence model to a device token
func (m *DeviceTokenModel) ToDomain() notification.DeviceToken {
	return notification.DeviceToken{
		TenantID: m.TenantID,
		UserID:   m.UserID,
		Token:    m.Token,
	}
}
