package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContactStatus is the triage state of a submission.
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

type Contact struct {
	ID          uuid.UUID     `json:"id"           db:"id"           gorm:"primaryKey;column:id;type:uuid"`
	Name        string        `json:"name"         db:"name"         gorm:"column:name;not null"`
	Email       string        `json:"email"        db:"email"        gorm:"column:email;not null"`
	Phone       string        `json:"phone,omitempty" db:"phone"     gorm:"column:phone"`
	Subject     string        `json:"subject"      db:"subject"      gorm:"column:subject;not null"`
	Message     string        `json:"message"      db:"message"      gorm:"column:message;not null"`
	Status      ContactStatus `json:"status"       db:"status"       gorm:"column:status;not null;default:new"`
	SubmittedAt time.Time     `json:"submittedAt"  db:"submitted_at" gorm:"column:submitted_at;autoCreateTime"`
}

func (Contact) TableName() string { return "contacts" }

// matches local@domain.tld with no whitespace and a dotted domain
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ContactCreateRequest is the input for a new submission.
type ContactCreateRequest struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// HasRequiredFields is the coarse presence check run before the validation
// filter. Phone is optional.
func (p ContactCreateRequest) HasRequiredFields() bool {
	return p.Name != "" && p.Email != "" && p.Subject != "" && p.Message != ""
}

// Validate runs every rule independently and returns the full ordered list
// of violations. Values are trimmed for the checks only, the stored record
// keeps the submitted bytes.
func (p ContactCreateRequest) Validate() []string {
	var errs []string

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "Name is required")
	}

	if strings.TrimSpace(p.Email) == "" {
		errs = append(errs, "Email is required")
	} else if !emailPattern.MatchString(p.Email) {
		errs = append(errs, "Please provide a valid email address")
	}

	if strings.TrimSpace(p.Subject) == "" {
		errs = append(errs, "Subject is required")
	}

	if strings.TrimSpace(p.Message) == "" {
		errs = append(errs, "Message is required")
	} else if utf8.RuneCountInString(strings.TrimSpace(p.Message)) < 10 {
		errs = append(errs, "Message must be at least 10 characters long")
	}

	return errs
}
