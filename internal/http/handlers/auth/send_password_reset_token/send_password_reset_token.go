package sendpasswordresettoken

import (
	"encoding/json"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	ratelimiter "inboxflow/internal/core/domain/rate_limiter"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	service "inboxflow/internal/core/services/send_password_reset_token"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RESET_REQUESTED_MESSAGE is rendered whether or not the email belongs to a user.
const RESET_REQUESTED_MESSAGE = "if the email is registered, a password reset link has been sent"

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
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

	_, err := h.service.Run(r.Context(), service.Input{Email: c.NewEmail(input.Email)})
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if err != nil && !errors.Is(err, user.ErrPasswordResetTokenNotDelivered) {
		response.RenderInternalError(rw)
		return
	}

	response.RenderMessage(rw, RESET_REQUESTED_MESSAGE, http.StatusOK)
}
