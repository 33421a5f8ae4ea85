package loginwithemail

import (
	"encoding/json"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	ratelimiter "inboxflow/internal/core/domain/rate_limiter"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	loginwithemail "inboxflow/internal/core/services/log_in_with_email"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[loginwithemail.Input, loginwithemail.Result]
	cookie  auth.SessionCookie
}

func New(
	service services.Service[loginwithemail.Input, loginwithemail.Result],
	cookie auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, cookie: cookie}
}

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
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

	result, err := h.service.Run(
		r.Context(),
		loginwithemail.Input{Email: c.NewEmail(input.Email), Password: user.RawPassword(input.Password)},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderError(rw, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	h.cookie.Set(rw, result.Session)
	response.Render(rw, response.NewUserResult(result.User), http.StatusOK)
}
