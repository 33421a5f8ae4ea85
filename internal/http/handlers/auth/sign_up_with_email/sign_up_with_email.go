package signupwithemail

import (
	"encoding/json"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	signupwithemail "inboxflow/internal/core/services/sign_up_with_email"
	"inboxflow/internal/http/handlers/auth"
	"inboxflow/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[signupwithemail.Input, signupwithemail.Result]
	cookie  auth.SessionCookie
}

func New(
	service services.Service[signupwithemail.Input, signupwithemail.Result],
	cookie auth.SessionCookie,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, cookie: cookie}
}

type Input struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Username, validation.Required, is.Alphanumeric, validation.Length(3, 64)),
		validation.Field(&i.Name, validation.Length(0, 256)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, user.PasswordMaxLength)),
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
		signupwithemail.Input{
			Email:    c.NewEmail(input.Email),
			Username: user.Username(input.Username),
			Name:     input.Name,
			Password: user.RawPassword(input.Password),
		},
	)
	if auth.RenderWeakPassword(rw, err) {
		return
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		response.RenderError(rw, "email already exists", http.StatusConflict)
		return
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		response.RenderError(rw, "username already exists", http.StatusConflict)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	h.cookie.Set(rw, result.Session)
	response.Render(rw, response.NewUserResult(result.User), http.StatusCreated)
}
