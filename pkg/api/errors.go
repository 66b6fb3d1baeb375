package api

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Sentinel errors for the status codes the commands branch on. The response
// body text is wrapped around the sentinel so errors.Is keeps working while
// the service's message stays visible.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrOTPRequired   = errors.New("otp required")
	ErrUnprocessable = errors.New("unprocessable request")
	ErrServer        = errors.New("server error")
)

func mapStatusError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	body = strings.Trim(body, `"`)

	wrap := func(sentinel error) error {
		if body == "" {
			return sentinel
		}
		return errors.Wrap(sentinel, body)
	}

	switch code {
	case http.StatusBadRequest:
		return wrap(ErrBadRequest)
	case http.StatusUnauthorized:
		return wrap(ErrUnauthorized)
	case http.StatusForbidden:
		return wrap(ErrForbidden)
	case http.StatusNotFound:
		return wrap(ErrNotFound)
	case http.StatusConflict:
		return wrap(ErrConflict)
	case http.StatusTeapot:
		// The service signals a missing OTP code with 418.
		return wrap(ErrOTPRequired)
	case http.StatusUnprocessableEntity:
		return wrap(ErrUnprocessable)
	default:
		if code >= http.StatusInternalServerError {
			return errors.Wrapf(ErrServer, "http %d: %s", code, body)
		}
		if body == "" {
			body = http.StatusText(code)
		}
		return errors.Errorf("http %d: %s", code, body)
	}
}
