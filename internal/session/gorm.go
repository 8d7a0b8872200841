package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"psicocitas-web/internal/models"
)

// GormStore keeps sealed sessions in a SQL table.
type GormStore struct {
	DB     *gorm.DB
	sealer *Sealer
	now    func() time.Time
}

// NewGormStore creates a store on db. The session_records table must exist;
// models.Migrate creates it.
func NewGormStore(db *gorm.DB, sealer *Sealer) *GormStore {
	return &GormStore{DB: db, sealer: sealer, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, id string) (*Record, error) {
	var row models.SessionRecord
	err := s.DB.WithContext(ctx).Where("id = ? AND expires_at > ?", id, s.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return openRecord(s.sealer, row.ID, row.ExpiresAt, row.Payload)
}

func (s *GormStore) Save(ctx context.Context, rec *Record) error {
	sealed, err := sealRecord(s.sealer, rec)
	if err != nil {
		return err
	}
	row := models.SessionRecord{
		BaseModel: models.BaseModel{ID: rec.ID},
		UserID:    rec.User.ID,
		Payload:   sealed,
		ExpiresAt: rec.ExpiresAt,
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "payload", "expires_at", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return err
	}
	rec.ID = row.ID
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.SessionRecord{}, "id = ?", id).Error
}

// List returns live sessions and purges expired rows.
func (s *GormStore) List(ctx context.Context) ([]*Record, error) {
	now := s.now()
	db := s.DB.WithContext(ctx)
	if err := db.Where("expires_at <= ?", now).Delete(&models.SessionRecord{}).Error; err != nil {
		return nil, err
	}

	var rows []models.SessionRecord
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := openRecord(s.sealer, row.ID, row.ExpiresAt, row.Payload)
		if err != nil {
			// Sealed with another secret; unusable either way.
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
