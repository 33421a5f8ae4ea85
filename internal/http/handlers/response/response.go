package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid session", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter) {
	RenderError(rw, "rate limit exceeded", http.StatusTooManyRequests)
}

func RenderInvalidRequest(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

// RenderValidationError renders field errors, such as validation.Errors, under "errors".
func RenderValidationError(rw http.ResponseWriter, errs error) {
	Render(rw, errorResponse{Message: "invalid request data", Errors: errs}, http.StatusBadRequest)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Message: msg}, status)
}

func RenderMessage(rw http.ResponseWriter, msg string, status int) {
	Render(rw, messageResponse{Message: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
