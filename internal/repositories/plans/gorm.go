package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"automarket_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverrideRow is one row of the plan_overrides table.
type OverrideRow struct {
	ID        models.PlanID  `gorm:"type:varchar(64);primaryKey"`
	Override  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
	UpdatedAt time.Time
}

func (OverrideRow) TableName() string {
	return "plan_overrides"
}

// GormStore keeps overrides in the application database, shared by every
// server instance.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	var row OverrideRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PlanOverride{}, ErrNotFound
		}
		return models.PlanOverride{}, err
	}
	return decodeOverride(row.Override)
}

func (s *GormStore) Put(ctx context.Context, id models.PlanID, override models.PlanOverride) error {
	payload, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("encode plan override %s: %w", id, err)
	}

	now := time.Now().UTC()
	row := OverrideRow{
		ID:        id,
		Override:  datatypes.JSON(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	// created_at is left alone on conflict so List keeps insertion order.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"override", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&OverrideRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) List(ctx context.Context) ([]Entry, error) {
	var rows []OverrideRow
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		o, err := decodeOverride(row.Override)
		if err != nil {
			return nil, fmt.Errorf("decode plan override %s: %w", row.ID, err)
		}
		entries = append(entries, Entry{ID: row.ID, Override: o})
	}
	return entries, nil
}

func decodeOverride(raw []byte) (models.PlanOverride, error) {
	var o models.PlanOverride
	if err := json.Unmarshal(raw, &o); err != nil {
		return models.PlanOverride{}, err
	}
	return o, nil
}
