package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/salehub/backend/internal/domain/sale"
)

// SaleModel is the persistence model for a sale record.
// (tenant_id, gateway, external_id) is unique: one record per idempotency key.
type SaleModel struct {
	BaseModel
	TenantID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_sales_idempotency_key,priority:1;index:idx_sales_tenant_created,priority:1"`
	Gateway          string           `gorm:"type:varchar(50);not null;uniqueIndex:uq_sales_idempotency_key,priority:2"`
	ExternalID       string           `gorm:"type:varchar(200);not null;uniqueIndex:uq_sales_idempotency_key,priority:3"`
	Status           string           `gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CustomerName     string           `gorm:"type:varchar(200);not null"`
	CustomerEmail    string           `gorm:"type:varchar(200);not null"`
	CustomerPhone    *string          `gorm:"type:varchar(50)"`
	CustomerDocument *string          `gorm:"type:varchar(50)"`
	ProductName      *string          `gorm:"type:varchar(300)"`
	ProductQuantity  *int             `gorm:"type:integer"`
	ProductPrice     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Tracking         datatypes.JSON
	OriginalPayload  string `gorm:"type:text;not null"`
	EventType        string `gorm:"type:varchar(100)"`

	History []SaleStatusHistoryModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleStatusHistoryModel is one entry of a sale's status history. Rows are
// only ever inserted; Position orders entries written within the same instant.
type SaleStatusHistoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	SaleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_sale_status_history_position,priority:1"`
	Position   int       `gorm:"not null;uniqueIndex:uq_sale_status_history_position,priority:2"`
	Status     string    `gorm:"type:varchar(20);not null"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleStatusHistoryModel) TableName() string {
	return "sale_status_history"
}

// NewSaleStatusHistoryModel creates a history row for the given position
func NewSaleStatusHistoryModel(saleID uuid.UUID, position int, status sale.Status, at time.Time) *SaleStatusHistoryModel {
	return &SaleStatusHistoryModel{
		ID:         uuid.New(),
		SaleID:     saleID,
		Position:   position,
		Status:     string(status),
		RecordedAt: at,
	}
}

// ApplySale copies the mutable sale fields onto the model
func (m *SaleModel) ApplySale(s *sale.UnifiedSale) error {
	m.Gateway = string(s.Gateway)
	m.ExternalID = s.ExternalID
	m.Status = string(s.Status)
	m.Amount = s.Amount
	m.CustomerName = s.Customer.Name
	m.CustomerEmail = s.Customer.Email
	m.CustomerPhone = s.Customer.Phone
	m.CustomerDocument = s.Customer.Document
	m.ProductName, m.ProductQuantity, m.ProductPrice = nil, nil, nil
	if s.Product != nil {
		name := s.Product.Name
		m.ProductName = &name
		m.ProductQuantity = s.Product.Quantity
		m.ProductPrice = s.Product.Price
	}
	m.Tracking = nil
	if !s.Tracking.IsEmpty() {
		raw, err := json.Marshal(s.Tracking)
		if err != nil {
			return err
		}
		m.Tracking = datatypes.JSON(raw)
	}
	// stored as text: the body is kept exactly as the vendor sent it
	m.OriginalPayload = string(s.OriginalPayload)
	if m.OriginalPayload == "" {
		m.OriginalPayload = "null"
	}
	m.EventType = s.EventType
	return nil
}

// SaleModelFromDomain creates a new persistence model for a first delivery
func SaleModelFromDomain(r *sale.Record) (*SaleModel, error) {
	m := &SaleModel{TenantID: r.TenantID}
	m.FromDomainBaseEntity(r.BaseEntity)
	if err := m.ApplySale(&r.Sale); err != nil {
		return nil, err
	}
	return m, nil
}

// ToDomain converts the persistence model to a domain sale record.
// History must be loaded and ordered by position.
func (m *SaleModel) ToDomain() (*sale.Record, error) {
	r := &sale.Record{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Sale: sale.UnifiedSale{
			Gateway:    sale.Gateway(m.Gateway),
			ExternalID: m.ExternalID,
			Status:     sale.Status(m.Status),
			Amount:     m.Amount,
			Customer: sale.Customer{
				Name:     m.CustomerName,
				Email:    m.CustomerEmail,
				Phone:    m.CustomerPhone,
				Document: m.CustomerDocument,
			},
			OriginalPayload: json.RawMessage(m.OriginalPayload),
			EventType:       m.EventType,
		},
		History: make([]sale.StatusEntry, 0, len(m.History)),
	}
	if m.ProductName != nil {
		r.Sale.Product = &sale.Product{
			Name:     *m.ProductName,
			Quantity: m.ProductQuantity,
			Price:    m.ProductPrice,
		}
	}
	if len(m.Tracking) > 0 && string(m.Tracking) != "null" {
		var t sale.Tracking
		if err := json.Unmarshal(m.Tracking, &t); err != nil {
			return nil, err
		}
		r.Sale.Tracking = &t
	}
	for _, h := range m.History {
		r.History = append(r.History, sale.StatusEntry{Status: sale.Status(h.Status), Timestamp: h.RecordedAt})
	}
	return r, nil
}
