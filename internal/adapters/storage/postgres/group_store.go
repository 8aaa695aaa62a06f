package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const creationOrder = "created_at ASC, id ASC"

func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	var rows []groupModel
	if err := s.db.WithContext(ctx).Order(creationOrder).Find(&rows).Error; err != nil {
		return nil, translate("ListGroups", err, nil)
	}
	return mapAll(rows, (*groupModel).toDomain), nil
}

func (s *Store) GetGroup(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	var m groupModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", string(id)).Error; err != nil {
		return nil, translate("group "+string(id), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) GetGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	var m groupModel
	if err := s.db.WithContext(ctx).First(&m, "name = ?", name).Error; err != nil {
		return nil, translate(fmt.Sprintf("group %q", name), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) CreateGroup(ctx context.Context, f domain.GroupFields) (*domain.Group, error) {
	now := s.now()
	m := groupModel{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Faculty:     f.Faculty,
		Description: f.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, translate(fmt.Sprintf("group %q", f.Name), err, domain.ErrGroupNameTaken)
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateGroup(ctx context.Context, id domain.GroupID, f domain.GroupFields) (*domain.Group, error) {
	var m groupModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", string(id)).Error; err != nil {
			return err
		}
		m.Name = f.Name
		m.Faculty = f.Faculty
		m.Description = f.Description
		m.UpdatedAt = s.now()
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, translate("group "+string(id), err, domain.ErrGroupNameTaken)
	}
	return m.toDomain(), nil
}

// DeleteGroup relies on the RESTRICT foreign keys of schedules and users.
func (s *Store) DeleteGroup(ctx context.Context, id domain.GroupID) error {
	res := s.db.WithContext(ctx).Delete(&groupModel{}, "id = ?", string(id))
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("group %s: %w", id, domain.ErrGroupInUse)
	}
	if res.Error != nil {
		return translate("group "+string(id), res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
