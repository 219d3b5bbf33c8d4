package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/infrastructure/persistence/models"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func preloadHistory(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func idempotencyKeyScope(key sale.IdempotencyKey) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ? AND gateway = ? AND external_id = ?", key.TenantID, string(key.Gateway), key.ExternalID)
	}
}

// FindByKey finds a sale by its idempotency key
func (r *GormSaleRepository) FindByKey(ctx context.Context, key sale.IdempotencyKey) (*sale.Record, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Scopes(idempotencyKeyScope(key)).
		Preload("History", preloadHistory).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByID finds a sale by ID within a tenant
func (r *GormSaleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sale.Record, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Preload("History", preloadHistory).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// ListByTenant returns the most recent sales of a tenant
func (r *GormSaleRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]sale.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Preload("History", preloadHistory).
		Order("created_at DESC").
		Limit(limit).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}

	records := make([]sale.Record, 0, len(saleModels))
	for i := range saleModels {
		rec, err := saleModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Upsert applies one delivery to the store atomically. The existing row is
// locked for the rest of the transaction; when the key is new the insert uses
// ON CONFLICT DO NOTHING, and a lost race falls back to the update path.
func (r *GormSaleRepository) Upsert(ctx context.Context, tenantID uuid.UUID, s sale.UnifiedSale, at time.Time) (*sale.UpsertOutcome, error) {
	key := s.Key(tenantID)
	var outcome *sale.UpsertOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockSale(tx, key)
		if err != nil {
			return err
		}
		if existing == nil {
			created, inserted, err := insertSale(tx, tenantID, s, at)
			if err != nil {
				return err
			}
			if inserted {
				outcome = &sale.UpsertOutcome{Record: created, Action: sale.ActionCreated}
				return nil
			}
			// Another delivery created the row first
			existing, err = lockSale(tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("sale %s vanished after insert conflict", key)
			}
		}

		updated, previous, err := updateSale(tx, existing, s, at)
		if err != nil {
			return err
		}
		outcome = &sale.UpsertOutcome{Record: updated, Action: sale.ActionUpdated, PreviousStatus: &previous}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// lockSale loads the sale for the key with a row lock, returning nil when absent
func lockSale(tx *gorm.DB, key sale.IdempotencyKey) (*models.SaleModel, error) {
	var model models.SaleModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(idempotencyKeyScope(key)).
		Preload("History", preloadHistory).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func insertSale(tx *gorm.DB, tenantID uuid.UUID, s sale.UnifiedSale, at time.Time) (*sale.Record, bool, error) {
	record := sale.NewRecord(tenantID, s, at)
	model, err := models.SaleModelFromDomain(record)
	if err != nil {
		return nil, false, err
	}

	result := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "gateway"}, {Name: "external_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}

	if err := tx.Create(models.NewSaleStatusHistoryModel(model.ID, 0, s.Status, at)).Error; err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func updateSale(tx *gorm.DB, model *models.SaleModel, s sale.UnifiedSale, at time.Time) (*sale.Record, sale.Status, error) {
	previous := sale.Status(model.Status)

	record, err := model.ToDomain()
	if err != nil {
		return nil, "", err
	}
	record.Apply(s, at)

	if err := model.ApplySale(&record.Sale); err != nil {
		return nil, "", err
	}
	model.UpdatedAt = at
	if err := tx.Model(model).Omit(clause.Associations).Select(
		"status", "amount", "customer_name", "customer_email", "customer_phone", "customer_document",
		"product_name", "product_quantity", "product_price", "tracking", "original_payload", "event_type", "updated_at",
	).Updates(model).Error; err != nil {
		return nil, "", err
	}

	position := len(model.History)
	if err := tx.Create(models.NewSaleStatusHistoryModel(model.ID, position, s.Status, at)).Error; err != nil {
		return nil, "", err
	}
	return record, previous, nil
}

// Ensure GormSaleRepository implements sale.Repository
var _ sale.Repository = (*GormSaleRepository)(nil)
