package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"folio/internal/database"
	"folio/internal/errcode"
)

// GormStore 把档案保存在 profiles 表中，按 owner 隔离。
type GormStore struct {
	db       *gorm.DB
	owner    string
	maxBytes int
}

func NewGormStore(db *gorm.DB, owner string, maxBytes int) *GormStore {
	return &GormStore{db: db, owner: owner, maxBytes: maxBytes}
}

// Scoped 返回另一个 owner 的存储。
func (s *GormStore) Scoped(owner string) *GormStore {
	return &GormStore{db: s.db, owner: owner, maxBytes: s.maxBytes}
}

func (s *GormStore) Get(ctx context.Context, name string) ([]byte, error) {
	var p database.Profile
	err := s.db.WithContext(ctx).
		Where("owner = ? AND name = ?", s.owner, name).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.Wrap(errcode.ErrProfileNotFound, "profile %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return []byte(p.Content), nil
}

func (s *GormStore) Put(ctx context.Context, name string, value []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := checkSize(name, value, s.maxBytes); err != nil {
		return err
	}
	p := database.Profile{Owner: s.owner, Name: name, Content: datatypes.JSON(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at", "deleted_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).
		Where("owner = ? AND name = ?", s.owner, name).
		Delete(&database.Profile{}).Error
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *GormStore) Keys(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&database.Profile{}).
		Where("owner = ?", s.owner).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return names, nil
}
