package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

var (
	ErrEmptyQuery = errors.New("query must not be empty")
	ErrEmptyJudge = errors.New("judge must not be empty")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"HTTP status text"`
	Message string `json:"message" description:"Error details"`
}

// HandleError writes err as an ErrorResponse with the given status code.
func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}
