package recipes

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/recipe-lab/pkg/slug"
)

// Form part names.
const (
	FieldName        = "name"
	FieldRations     = "rations"
	FieldThumbnail   = "thumbnail"
	FieldIngredients = "ingredients[]"
	FieldText        = "Text"
	FieldURL         = "URL"
	FieldImage       = "Image"

	fieldIngredientsAlias = "ingredients"
	fieldSteps            = "steps"
)

// imageExtensions maps accepted attachment media types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpeg",
}

// DecodeRequest decodes the multipart body of r. Callers should bound the
// body with http.MaxBytesReader first; exceeding it yields ErrPayloadTooLarge.
func DecodeRequest(r *http.Request) (*IngestionRequest, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, decodeErr(ErrMalformedBody, "", err)
	}
	return Decode(mr)
}

// Decode scans parts in arrival order and builds a validated IngestionRequest.
// The first invalid part rejects the whole submission.
func Decode(mr *multipart.Reader) (*IngestionRequest, error) {
	var b builder

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, bodyErr("", err)
		}

		err = b.accept(part)
		part.Close()
		if err != nil {
			return nil, err
		}
	}

	return b.build()
}

// builder accumulates parts. steps doubles as the "already chosen" guard for
// the Text, URL and Image parts.
type builder struct {
	name        *string
	rations     *uint32
	thumbnail   *Attachment
	ingredients []IngredientLine
	seen        map[string]bool
	steps       Steps
}

func (b *builder) accept(part *multipart.Part) error {
	field := part.FormName()

	switch field {
	case FieldName:
		v, err := readText(field, part)
		if err != nil {
			return err
		}
		b.name = &v

	case FieldRations:
		v, err := readText(field, part)
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return decodeErr(ErrInvalidNumber, field, err)
		}
		rations := uint32(n)
		b.rations = &rations

	case FieldThumbnail:
		att, err := readAttachment(field, part)
		if err != nil {
			return err
		}
		b.thumbnail = &att

	case FieldIngredients, fieldIngredientsAlias:
		v, err := readText(field, part)
		if err != nil {
			return err
		}
		line, err := ParseIngredientLine(v)
		if err != nil {
			return decodeErr(ErrInvalidIngredientLine, field, err)
		}
		if b.seen[line.Ingredient] {
			return decodeErr(ErrInvalidIngredientLine, field, errors.New("duplicate ingredient "+line.Ingredient))
		}
		if b.seen == nil {
			b.seen = make(map[string]bool)
		}
		b.seen[line.Ingredient] = true
		b.ingredients = append(b.ingredients, line)

	case FieldText, FieldURL, FieldImage:
		if b.steps != nil {
			return decodeErr(ErrConflictingSteps, field, errors.New("already set by "+stepsField(b.steps)))
		}
		steps, err := readSteps(field, part)
		if err != nil {
			return err
		}
		b.steps = steps

	default:
		return decodeErr(ErrUnknownField, field, nil)
	}

	return nil
}

func (b *builder) build() (*IngestionRequest, error) {
	var missing []string
	if b.name == nil || strings.TrimSpace(*b.name) == "" {
		missing = append(missing, FieldName)
	}
	if b.rations == nil {
		missing = append(missing, FieldRations)
	}
	if b.steps == nil {
		missing = append(missing, fieldSteps)
	}
	if len(missing) > 0 {
		return nil, &DecodeError{Kind: ErrIncompleteSubmission, Missing: missing}
	}

	name := strings.TrimSpace(*b.name)
	if slug.Make(name) == "" {
		return nil, decodeErr(ErrInvalidName, FieldName, nil)
	}

	return &IngestionRequest{
		Name:        name,
		Rations:     *b.rations,
		Thumbnail:   b.thumbnail,
		Ingredients: b.ingredients,
		Steps:       b.steps,
	}, nil
}

func readSteps(field string, part *multipart.Part) (Steps, error) {
	switch field {
	case FieldText:
		v, err := readText(field, part)
		if err != nil {
			return nil, err
		}
		return TextSteps{Body: v}, nil

	case FieldURL:
		v, err := readText(field, part)
		if err != nil {
			return nil, err
		}
		link, err := parseAbsoluteURL(strings.TrimSpace(v))
		if err != nil {
			return nil, decodeErr(ErrInvalidURL, field, err)
		}
		return URLSteps{Link: link}, nil

	default:
		att, err := readAttachment(field, part)
		if err != nil {
			return nil, err
		}
		return ImageSteps{Image: att}, nil
	}
}

func stepsField(s Steps) string {
	switch s.(type) {
	case TextSteps:
		return FieldText
	case URLSteps:
		return FieldURL
	default:
		return FieldImage
	}
}

func parseAbsoluteURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.New("url must be absolute with a host")
	}
	return u, nil
}

// readText reads a text part. Text must be valid UTF-8; it is stored verbatim.
func readText(field string, part *multipart.Part) (string, error) {
	data, err := io.ReadAll(part)
	if err != nil {
		return "", bodyErr(field, err)
	}
	if !utf8.Valid(data) {
		return "", decodeErr(ErrMalformedBody, field, errors.New("text is not valid UTF-8"))
	}
	return string(data), nil
}

// readAttachment checks the declared content type before reading the payload.
func readAttachment(field string, part *multipart.Part) (Attachment, error) {
	declared := part.Header.Get("Content-Type")
	if declared == "" {
		return Attachment{}, decodeErr(ErrMissingContentType, field, nil)
	}

	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return Attachment{}, decodeErr(ErrUnsupportedContentType, field, err)
	}

	ext, ok := imageExtensions[strings.ToLower(mediaType)]
	if !ok {
		return Attachment{}, decodeErr(ErrUnsupportedContentType, field, errors.New(mediaType))
	}

	data, err := io.ReadAll(part)
	if err != nil {
		return Attachment{}, bodyErr(field, err)
	}

	return Attachment{Data: data, Extension: ext}, nil
}

func bodyErr(field string, err error) *DecodeError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return decodeErr(ErrPayloadTooLarge, field, err)
	}
	return decodeErr(ErrMalformedBody, field, err)
}
