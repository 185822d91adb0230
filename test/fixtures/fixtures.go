package fixtures

import (
	"time"

	"github.com/omytech/contact-api/internal/model"
)

func NewTestContact(name, email, subject, message string) *model.Contact {
	return &model.Contact{
		Name:        name,
		Email:       email,
		Subject:     subject,
		Message:     message,
		Status:      model.ContactStatusNew,
		SubmittedAt: time.Now(),
	}
}

func NewTestContactCreateRequest(name, email, subject, message string) model.ContactCreateRequest {
	return model.ContactCreateRequest{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
}

var (
	ValidEmails = []string{
		"jane@example.com",
		"jane.doe@example.co.ke",
		"j+tag@mail.example.org",
	}

	InvalidEmails = []string{
		"",
		"plainaddress",
		"no-at.example.com",
		"jane@nodot",
		"jane doe@example.com",
	}

	ValidMessages = []string{
		"I would like a quote for a website.",
		"Ten chars!",
	}

	InvalidMessages = []string{
		"",
		"   ",
		"too short",
	}
)

func ContactCreateRequestValid() model.ContactCreateRequest {
	return NewTestContactCreateRequest("Jane Doe", "jane@example.com", "Project inquiry", "I would like a quote for a website.")
}

func ContactCreateRequestWithPhone() model.ContactCreateRequest {
	req := ContactCreateRequestValid()
	req.Phone = "+254712345678"
	return req
}

func ContactCreateRequestInvalidEmail() model.ContactCreateRequest {
	return NewTestContactCreateRequest("Jane Doe", "not-an-email", "Project inquiry", "I would like a quote for a website.")
}

func ContactCreateRequestShortMessage() model.ContactCreateRequest {
	return NewTestContactCreateRequest("Jane Doe", "jane@example.com", "Project inquiry", "too short")
}

func ContactCreateRequestMissingFields() model.ContactCreateRequest {
	return model.ContactCreateRequest{Phone: "+254712345678"}
}
