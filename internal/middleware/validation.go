package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"amber-storefront/internal/validation"
)

// maximum accepted request body
const maxBodyBytes = 1 << 20

var ErrInvalidBody = errors.New("invalid request body")

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := Decode(r, v); err != nil {
		return err
	}
	return validation.Validate(v)
}
