package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var rows []userModel
	if err := s.db.WithContext(ctx).Order(creationOrder).Find(&rows).Error; err != nil {
		return nil, translate("ListUsers", err, nil)
	}
	return mapAll(rows, (*userModel).toDomain), nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", string(id)).Error; err != nil {
		return nil, translate("user "+string(id), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) GetUserByChatID(ctx context.Context, chatID domain.ChatID) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, "chat_id = ?", string(chatID)).Error; err != nil {
		return nil, translate(fmt.Sprintf("user with chat %s", chatID), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) CreateUser(ctx context.Context, f domain.UserFields) (*domain.User, error) {
	now := s.now()
	m := userModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	m.apply(f)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, translate(fmt.Sprintf("user with chat %s", f.ChatID), err, domain.ErrAlreadyExists)
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id domain.UserID, f domain.UserFields) (*domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", string(id)).Error; err != nil {
			return err
		}
		m.apply(f)
		m.UpdatedAt = s.now()
		return tx.Omit(clause.Associations).Save(&m).Error
	})
	if err != nil {
		return nil, translate("user "+string(id), err, domain.ErrAlreadyExists)
	}
	return m.toDomain(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id domain.UserID) error {
	res := s.db.WithContext(ctx).Delete(&userModel{}, "id = ?", string(id))
	if res.Error != nil {
		return translate("user "+string(id), res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return translate("user "+string(id), gorm.ErrRecordNotFound, nil)
	}
	return nil
}
