package resetpassword

import (
	"encoding/json"
	"errors"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	resetpassword "inboxflow/internal/core/services/reset_password"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

// Validate checks the token only. The password policy is applied by the
// service once the token is known to be usable.
func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
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
		resetpassword.Input{
			Token:       user.PasswordResetToken(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if auth.RenderWeakPassword(rw, err) {
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, user.ErrPasswordResetTokenNotFound):
			response.RenderError(rw, "invalid password reset token", http.StatusBadRequest)
		case errors.Is(err, user.ErrPasswordResetTokenExpired):
			response.RenderError(rw, "password reset token has expired", http.StatusBadRequest)
		case errors.Is(err, user.ErrPasswordResetTokenAlreadyUsed):
			response.RenderError(rw, "password reset token has already been used", http.StatusBadRequest)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.RenderMessage(rw, "password has been reset", http.StatusOK)
}
