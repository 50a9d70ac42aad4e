package recipes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Decoding errors. Every one is detected before any storage I/O.
var (
	ErrUnknownField           = errors.New("unknown field")
	ErrInvalidNumber          = errors.New("invalid number")
	ErrInvalidIngredientLine  = errors.New("invalid ingredient line")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrMissingContentType     = errors.New("missing content type")
	ErrConflictingSteps       = errors.New("steps already provided")
	ErrInvalidURL             = errors.New("invalid url")
	ErrIncompleteSubmission   = errors.New("incomplete submission")
	ErrInvalidName            = errors.New("name has no letters or digits")
	ErrMalformedBody          = errors.New("malformed multipart body")
	ErrPayloadTooLarge        = errors.New("payload too large")
)

// Persistence errors.
var (
	ErrSlugCollision     = errors.New("recipe already exists")
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrAttachmentWrite   = errors.New("attachment write failed")
	ErrTransactionFailed = errors.New("transaction failed")
)

// ErrNotFound is returned by Find for an unknown slug.
var ErrNotFound = errors.New("recipe not found")

var codes = map[error]string{
	ErrUnknownField:           "UNKNOWN_FIELD",
	ErrInvalidNumber:          "INVALID_NUMBER",
	ErrInvalidIngredientLine:  "INVALID_INGREDIENT_LINE",
	ErrUnsupportedContentType: "UNSUPPORTED_CONTENT_TYPE",
	ErrMissingContentType:     "MISSING_CONTENT_TYPE",
	ErrConflictingSteps:       "CONFLICTING_STEPS_VARIANT",
	ErrInvalidURL:             "INVALID_URL",
	ErrIncompleteSubmission:   "INCOMPLETE_SUBMISSION",
	ErrInvalidName:            "INVALID_NAME",
	ErrMalformedBody:          "MALFORMED_BODY",
	ErrPayloadTooLarge:        "PAYLOAD_TOO_LARGE",
	ErrSlugCollision:          "SLUG_COLLISION",
	ErrUnknownIngredient:      "UNKNOWN_INGREDIENT",
	ErrAttachmentWrite:        "ATTACHMENT_WRITE_FAILED",
	ErrTransactionFailed:      "TRANSACTION_FAILED",
}

// DecodeError reports a submission rejected by the decoder. Kind is one of the
// decoding sentinels; errors.Is matches both Kind and Cause.
type DecodeError struct {
	Kind    error
	Field   string
	Missing []string
	Cause   error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if len(e.Missing) > 0 {
		b.WriteString(": missing ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func (e *DecodeError) Code() string {
	return codes[e.Kind]
}

// PersistError reports a validated submission that could not be committed.
type PersistError struct {
	Kind  error
	Slug  string
	Cause error
}

func (e *PersistError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Slug, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Slug, e.Kind, e.Cause)
}

func (e *PersistError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func (e *PersistError) Code() string {
	return codes[e.Kind]
}

func decodeErr(kind error, field string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Field: field, Cause: cause}
}

func persistErr(kind error, slug string, cause error) *PersistError {
	return &PersistError{Kind: kind, Slug: slug, Cause: cause}
}

// MapHTTPStatus converts recipe errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedContentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrSlugCollision):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownIngredient):
		return http.StatusUnprocessableEntity
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
