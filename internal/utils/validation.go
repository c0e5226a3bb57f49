package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/constants"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator with json-tag field names so that
// validation errors reference the names clients actually send.
func InitValidator() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct with
// strict decoding and a request size limit.
func DecodeJSON(r *http.Request, v interface{}) error {
	// Limit the size of the request body to prevent DOS attacks
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case err.Error() == "http: request body too large":
			return NewBadRequestError(constants.MsgRequestBodyTooLarge)

		case errors.Is(err, io.EOF):
			return NewBadRequestError(constants.MsgEmptyRequestBody)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return NewBadRequestError(constants.MsgMalformedJSON)

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return NewValidationError("unknown_field", fmt.Sprintf("Request body contains unknown field %s", fieldName))

		case errors.As(err, &syntaxError):
			return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

		case errors.As(err, &invalidUnmarshalError):
			return NewInternalServerError(err)

		default:
			return NewBadRequestError(fmt.Sprintf("Error decoding JSON: %s", err.Error()))
		}
	}

	// Check for additional JSON data that would be ignored
	if dec.More() {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// ValidateStruct runs validator tags against the provided struct and converts
// failures into a field-keyed validation error map.
func ValidateStruct(v interface{}) map[string]string {
	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}

	validationErrors := make(map[string]string)
	var invalidErr *validator.InvalidValidationError
	if errors.As(err, &invalidErr) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		switch fieldErr.Tag() {
		case "required":
			validationErrors[fieldErr.Field()] = "This field is required"
		case "min":
			validationErrors[fieldErr.Field()] = fmt.Sprintf("Must be at least %s characters long", fieldErr.Param())
		case "max":
			validationErrors[fieldErr.Field()] = fmt.Sprintf("Must be at most %s characters long", fieldErr.Param())
		case "oneof":
			validationErrors[fieldErr.Field()] = fmt.Sprintf("Must be one of: %s", fieldErr.Param())
		default:
			validationErrors[fieldErr.Field()] = fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
		}
	}

	return validationErrors
}
