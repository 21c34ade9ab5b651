package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateModel is the single-row table backing the GormStore. One
// deployment owns exactly one row.
type StateModel struct {
	ID           int            `gorm:"primaryKey"`
	Overlay      datatypes.JSON `gorm:"type:jsonb"`
	Entitlements datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt    time.Time
}

// TableName pins the table name.
func (StateModel) TableName() string { return "storefront_state" }

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&StateModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// LoadOverlay reads the extras overlay. A missing row or corrupt column
// loads as an empty overlay.
func (s *GormStore) LoadOverlay() (map[string]int, error) {
	model, found, err := s.loadRow()
	if err != nil || !found {
		return map[string]int{}, err
	}
	overlay := map[string]int{}
	if len(model.Overlay) > 0 {
		if err := json.Unmarshal(model.Overlay, &overlay); err != nil {
			slog.Warn("overlay column corrupt, starting empty", "error", err)
			return map[string]int{}, nil
		}
	}
	return overlay, nil
}

// SaveOverlay writes the extras overlay.
func (s *GormStore) SaveOverlay(overlay map[string]int) error {
	if overlay == nil {
		overlay = map[string]int{}
	}
	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return s.upsert(map[string]any{"overlay": datatypes.JSON(data)})
}

// LoadEntitlements reads the entitlement id list. A missing row or
// corrupt column loads as an empty set.
func (s *GormStore) LoadEntitlements() ([]string, error) {
	model, found, err := s.loadRow()
	if err != nil || !found {
		return []string{}, err
	}
	var ids []string
	if len(model.Entitlements) > 0 {
		if err := json.Unmarshal(model.Entitlements, &ids); err != nil {
			slog.Warn("entitlements column corrupt, starting empty", "error", err)
			return []string{}, nil
		}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SaveEntitlements writes the entitlement id list.
func (s *GormStore) SaveEntitlements(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode entitlements: %w", err)
	}
	return s.upsert(map[string]any{"entitlements": datatypes.JSON(data)})
}

func (s *GormStore) loadRow() (StateModel, bool, error) {
	var model StateModel
	if err := s.db.First(&model, "id = ?", 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return StateModel{}, false, nil
		}
		return StateModel{}, false, err
	}
	return model, true, nil
}

func (s *GormStore) upsert(updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()
	model := StateModel{ID: 1, UpdatedAt: time.Now().UTC()}
	if v, ok := updates["overlay"]; ok {
		model.Overlay = v.(datatypes.JSON)
	}
	if v, ok := updates["entitlements"]; ok {
		model.Entitlements = v.(datatypes.JSON)
	}
	assign := make([]string, 0, len(updates))
	for col := range updates {
		assign = append(assign, col)
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(&model).Error
}
