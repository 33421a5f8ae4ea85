package me

import (
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/services"
	service "inboxflow/internal/core/services/get_user_by_session_token"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
	cookie  auth.SessionCookie
}

func New(
	service services.Service[service.Input, service.Result],
	cookie auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(
		r.Context(),
		service.Input{Credentials: h.cookie.Credentials(r)},
	)
	if auth.RenderSessionError(rw, err) {
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, response.NewUserResult(result.User), http.StatusOK)
}
