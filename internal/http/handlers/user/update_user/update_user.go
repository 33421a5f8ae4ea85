package updateuser

import (
	"encoding/json"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	coreauth "inboxflow/internal/core/services/auth"
	service "inboxflow/internal/core/services/update_user"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
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

// Input lists the fields a user may change. Absent fields are left as they
// are, other fields of the body are ignored.
type Input struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return json.NewDecoder(r).Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.NilOrNotEmpty, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Username, validation.NilOrNotEmpty, is.Alphanumeric, validation.Length(3, 64)),
		validation.Field(&i.Name, validation.Length(0, 256)),
	)
}

func (i Input) toService(credentials coreauth.Credentials) service.Input {
	input := service.Input{Credentials: credentials}
	if i.Email != nil {
		input.Email = c.NewOptional(c.NewEmail(*i.Email), true)
	}
	if i.Username != nil {
		input.Username = c.NewOptional(user.Username(*i.Username), true)
	}
	if i.Name != nil {
		input.Name = c.NewOptional(*i.Name, true)
	}
	return input
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

	result, err := h.service.Run(r.Context(), input.toService(h.cookie.Credentials(r)))
	if auth.RenderSessionError(rw, err) {
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			response.RenderError(rw, "email already exists", http.StatusConflict)
		case errors.Is(err, user.ErrUsernameAlreadyExists):
			response.RenderError(rw, "username already exists", http.StatusConflict)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderUnauthorized(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, response.NewUserResult(result.User), http.StatusOK)
}
