package handlers

import (
	"github.com/fasthttp/router"
	xhttp "github.com/omytech/contact-api/pkg/http"
)

type RootHandler struct {
	banner  string
	version string
}

type bannerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
}

func RegisterRootRoutes(r *router.Router, h *RootHandler) {
	r.GET("/", h.GetBanner)
	r.GET("/health", h.GetHealth)
}

func NewRootHandler(banner, version string) *RootHandler {
	return &RootHandler{
		banner:  banner,
		version: version,
	}
}

func (h *RootHandler) GetBanner(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, bannerResponse{
		Success: true,
		Message: h.banner,
		Version: h.version,
	})
}

func (h *RootHandler) GetHealth(ctx *xhttp.RequestCtx) {
	ctx.Response.SetBodyString("success")
}
