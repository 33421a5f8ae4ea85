package changepassword

import (
	"encoding/json"
	"errors"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	changepassword "inboxflow/internal/core/services/change_password"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[changepassword.Input, changepassword.Result]
	cookie  auth.SessionCookie
}

func New(
	service services.Service[changepassword.Input, changepassword.Result],
	cookie auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, cookie: cookie}
}

type Input struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required, validation.Length(0, user.PasswordMaxLength)),
		validation.Field(&i.NewPassword, validation.Required),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderValidationError(rw, err)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		changepassword.Input{
			Credentials:     h.cookie.Credentials(r),
			CurrentPassword: user.RawPassword(input.CurrentPassword),
			NewPassword:     user.RawPassword(input.NewPassword),
		},
	)
	if auth.RenderSessionError(rw, err) || auth.RenderWeakPassword(rw, err) {
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, "current password is invalid", http.StatusBadRequest)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderUnauthorized(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.RenderMessage(rw, "password changed", http.StatusOK)
}
