package server

import (
	"io"
	nethttp "net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
	json "github.com/goccy/go-json"
)

// errorBody is the JSON error envelope. Message carries the underlying
// error text on 500s and is omitted elsewhere.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(ctx khttp.Context, code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w := ctx.Response()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, err = w.Write(data)
	return err
}

func writeError(ctx khttp.Context, code int, msg string) error {
	return writeJSON(ctx, code, errorBody{Error: msg})
}

// fail reports an internal error as a 500 with the underlying message.
func (s *Server) fail(ctx khttp.Context, err error) error {
	s.log.WithError(err).Error("request failed")
	return writeJSON(ctx, nethttp.StatusInternalServerError, errorBody{
		Error:   "internal error",
		Message: err.Error(),
	})
}

func notFound(ctx khttp.Context, msg string) error {
	return writeError(ctx, nethttp.StatusNotFound, msg)
}

func badRequest(ctx khttp.Context, msg string) error {
	return writeError(ctx, nethttp.StatusBadRequest, msg)
}

// decodeBody unmarshals the request body into v.
func decodeBody(ctx khttp.Context, v any) error {
	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
