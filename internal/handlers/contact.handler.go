package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/omytech/contact-api/internal/model"
	"github.com/omytech/contact-api/internal/ratelimit"
	"github.com/omytech/contact-api/internal/services"
	xhttp "github.com/omytech/contact-api/pkg/http"
	"github.com/omytech/contact-api/pkg/logger"
	"github.com/omytech/contact-api/pkg/prom"
)

type ContactService interface {
	Submit(ctx context.Context, p model.ContactCreateRequest) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type ContactHandler struct {
	svc ContactService
}

func RegisterContactRoutes(e *router.Group, h *ContactHandler, submitLimiter, apiLimiter *ratelimit.Limiter) {
	e.POST("/submit", submitLimiter.Handler(h.SubmitContact))
	e.GET("/", apiLimiter.Handler(h.ListContacts))
	e.GET("/{id}", apiLimiter.Handler(h.GetContact))
	e.PATCH("/{id}/status", apiLimiter.Handler(h.UpdateContactStatus))
	e.DELETE("/{id}", apiLimiter.Handler(h.DeleteContact))
}

func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{
		svc: contactService,
	}
}

type submitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type contactResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    *model.Contact `json:"data"`
}

type listContactsResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []*model.Contact `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ContactHandler) SubmitContact(ctx *xhttp.RequestCtx) {
	defer track("submit")()

	var req submitContactRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid JSON payload")
		return
	}

	p := model.ContactCreateRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}

	if !p.HasRequiredFields() {
		writeError(ctx, xhttp.StatusBadRequest, "Please provide all required fields")
		return
	}

	contact, err := h.svc.Submit(ctx, p)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSON(ctx, xhttp.StatusBadRequest, errorResponse{
				Success: false,
				Message: "Validation failed",
				Errors:  verr.Messages,
			})
			return
		}
		logger.Error("contact form submission error", "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "Failed to submit contact form. Please try again later.")
		return
	}

	writeJSON(ctx, xhttp.StatusCreated, contactResponse{
		Success: true,
		Message: "Thank you for contacting us! We will get back to you soon.",
		Data:    contact,
	})
}

func (h *ContactHandler) ListContacts(ctx *xhttp.RequestCtx) {
	defer track("list")()

	contacts, err := h.svc.List(ctx)
	if err != nil {
		logger.Error("get contacts error", "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	writeJSON(ctx, xhttp.StatusOK, listContactsResponse{
		Success: true,
		Count:   len(contacts),
		Data:    contacts,
	})
}

func (h *ContactHandler) GetContact(ctx *xhttp.RequestCtx) {
	defer track("get")()

	contact, err := h.svc.GetByID(ctx, param(ctx, "id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "Contact not found")
			return
		}
		logger.Error("get contact error", "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "Failed to retrieve contact")
		return
	}

	writeJSON(ctx, xhttp.StatusOK, contactResponse{Success: true, Data: contact})
}

func (h *ContactHandler) UpdateContactStatus(ctx *xhttp.RequestCtx) {
	defer track("update_status")()

	var req updateStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "Invalid status value")
		return
	}

	contact, err := h.svc.UpdateStatus(ctx, param(ctx, "id"), model.ContactStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			writeError(ctx, xhttp.StatusBadRequest, "Invalid status value")
		case errors.Is(err, services.ErrNotFound):
			writeError(ctx, xhttp.StatusNotFound, "Contact not found")
		default:
			logger.Error("update contact status error", "error", err)
			writeError(ctx, xhttp.StatusInternalServerError, "Failed to update contact status")
		}
		return
	}

	writeJSON(ctx, xhttp.StatusOK, contactResponse{
		Success: true,
		Message: "Contact status updated successfully",
		Data:    contact,
	})
}

func (h *ContactHandler) DeleteContact(ctx *xhttp.RequestCtx) {
	defer track("delete")()

	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "Contact not found")
			return
		}
		logger.Error("delete contact error", "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "Failed to delete contact")
		return
	}

	writeJSON(ctx, xhttp.StatusOK, messageResponse{
		Success: true,
		Message: "Contact deleted successfully",
	})
}

/* --------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, errorResponse{Success: false, Message: msg})
}

func param(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func track(operation string) func() {
	start := time.Now()
	return func() {
		prom.AddRequestDuration(operation, time.Since(start).Seconds())
	}
}
