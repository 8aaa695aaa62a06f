package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListEntries(ctx context.Context) ([]*domain.ScheduleEntry, error) {
	var rows []entryModel
	if err := s.db.WithContext(ctx).Order(creationOrder).Find(&rows).Error; err != nil {
		return nil, translate("ListEntries", err, nil)
	}
	return mapAll(rows, (*entryModel).toDomain), nil
}

func (s *Store) GetEntry(ctx context.Context, id domain.EntryID) (*domain.ScheduleEntry, error) {
	var m entryModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", string(id)).Error; err != nil {
		return nil, translate("entry "+string(id), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) ListEntriesByGroupDay(
	ctx context.Context,
	groupID domain.GroupID,
	day domain.WeekDay,
) ([]*domain.ScheduleEntry, error) {
	var rows []entryModel
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND day = ?", string(groupID), string(day)).
		Order(creationOrder).
		Find(&rows).Error
	if err != nil {
		return nil, translate("ListEntriesByGroupDay", err, nil)
	}
	return mapAll(rows, (*entryModel).toDomain), nil
}

func (s *Store) CreateEntry(ctx context.Context, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	now := s.now()
	m := entryModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	m.apply(f)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, translate("CreateEntry", err, domain.ErrAlreadyExists)
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateEntry(ctx context.Context, id domain.EntryID, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	var m entryModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", string(id)).Error; err != nil {
			return err
		}
		m.apply(f)
		m.UpdatedAt = s.now()
		return tx.Omit(clause.Associations).Save(&m).Error
	})
	if err != nil {
		return nil, translate("entry "+string(id), err, nil)
	}
	return m.toDomain(), nil
}

func (s *Store) DeleteEntry(ctx context.Context, id domain.EntryID) error {
	res := s.db.WithContext(ctx).Delete(&entryModel{}, "id = ?", string(id))
	if res.Error != nil {
		return translate("entry "+string(id), res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return translate("entry "+string(id), gorm.ErrRecordNotFound, nil)
	}
	return nil
}
