package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
)

func newContainer(route restful.RouteFunction) *restful.Container {
	container := restful.NewContainer()
	container.Filter(Logger)
	container.Filter(RecoverPanic)

	ws := new(restful.WebService)
	ws.Path("/test").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(route))
	container.Add(ws)
	return container
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRecoverPanic(t *testing.T) {
	container := newContainer(func(req *restful.Request, resp *restful.Response) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != "Internal Server Error" || body.Message != "internal server error" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		wantError  string
		wantStatus int
	}{
		{"bad request", ErrEmptyQuery, http.StatusBadRequest, "Bad Request", http.StatusBadRequest},
		{"not found", errors.New("unknown model label: X"), http.StatusNotFound, "Not Found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := newContainer(func(req *restful.Request, resp *restful.Response) {
				HandleError(resp, tt.err, tt.status)
			})

			rec := httptest.NewRecorder()
			container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			body := decodeError(t, rec)
			if body.Error != tt.wantError || body.Message != tt.err.Error() {
				t.Errorf("Unexpected body: %+v", body)
			}
		})
	}
}
