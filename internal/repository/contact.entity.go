package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/omytech/contact-api/internal/model"
)

type ContactEntity struct {
	ID          uuid.UUID `db:"id"           gorm:"primaryKey;column:id;type:uuid"`
	Name        string    `db:"name"         gorm:"column:name;not null"`
	Email       string    `db:"email"        gorm:"column:email;not null"`
	Phone       string    `db:"phone"        gorm:"column:phone"`
	Subject     string    `db:"subject"      gorm:"column:subject;not null"`
	Message     string    `db:"message"      gorm:"column:message;not null"`
	Status      string    `db:"status"       gorm:"column:status;not null;default:new"`
	SubmittedAt time.Time `db:"submitted_at" gorm:"column:submitted_at;autoCreateTime"`
}

func (ContactEntity) TableName() string {
	return "contacts"
}

func toContactEntity(c *model.Contact) *ContactEntity {
	if c == nil {
		return nil
	}
	return &ContactEntity{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Subject:     c.Subject,
		Message:     c.Message,
		Status:      string(c.Status),
		SubmittedAt: c.SubmittedAt,
	}
}

func toContactModel(e *ContactEntity) *model.Contact {
	if e == nil {
		return nil
	}
	return &model.Contact{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Subject:     e.Subject,
		Message:     e.Message,
		Status:      model.ContactStatus(e.Status),
		SubmittedAt: e.SubmittedAt,
	}
}

func toContactModels(entities []*ContactEntity) []*model.Contact {
	models := make([]*model.Contact, len(entities))
	for i, e := range entities {
		models[i] = toContactModel(e)
	}
	return models
}
