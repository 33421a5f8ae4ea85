package logout

import (
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/services"
	logout "inboxflow/internal/core/services/log_out"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[logout.Input, logout.Result]
	cookie  auth.SessionCookie
}

func New(
	service services.Service[logout.Input, logout.Result],
	cookie auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	_, err := h.service.Run(
		r.Context(),
		logout.Input{Token: h.cookie.ParseToken(r)},
	)
	if err != nil && !auth.IsSessionError(err) {
		response.RenderInternalError(rw)
		return
	}

	// Headers must be complete before the body is rendered.
	h.cookie.Clear(rw)
	if auth.RenderSessionError(rw, err) {
		return
	}
	response.RenderMessage(rw, "logged out", http.StatusOK)
}
