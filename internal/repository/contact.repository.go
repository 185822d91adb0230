package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/omytech/contact-api/internal/model"
	"github.com/omytech/contact-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a contact does not exist.
	ErrNotFound = errors.New("contact not found")
	// ErrInvalidID is returned for identifiers the storage layer cannot
	// parse. It is a storage failure, not a not-found condition.
	ErrInvalidID = errors.New("invalid contact id")
)

type ContactRepository struct {
	*pg.DB
}

func NewContactRepository(db *pg.DB) *ContactRepository {
	return &ContactRepository{
		db,
	}
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	entity := toContactEntity(c)
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if entity.Status == "" {
		entity.Status = string(model.ContactStatusNew)
	}

	if err := r.Conn(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toContactModel(entity), nil
}

// List returns every submission, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	var entities []*ContactEntity
	if err := r.Conn(ctx).Model(&ContactEntity{}).Order("submitted_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toContactModels(entities), nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var entity ContactEntity
	if err := r.Conn(ctx).First(&entity, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toContactModel(&entity), nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	tx := r.Conn(ctx).Model(&ContactEntity{}).Where("id = ?", uid).Update("status", string(status))
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var entity ContactEntity
	if err := r.Conn(ctx).First(&entity, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return toContactModel(&entity), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	tx := r.Conn(ctx).Delete(&ContactEntity{}, "id = ?", uid)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
