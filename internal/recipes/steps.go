package recipes

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// StepsKind tags the variant of a recipe's steps content.
type StepsKind string

const (
	StepsText  StepsKind = "Text"
	StepsURL   StepsKind = "Url"
	StepsImage StepsKind = "Image"
)

// Steps is the steps content of a submission. Exactly one variant is set:
// TextSteps, URLSteps or ImageSteps.
type Steps interface {
	Kind() StepsKind
	steps()
}

// TextSteps holds free-form instructions.
type TextSteps struct {
	Body string
}

// URLSteps links to instructions hosted elsewhere.
type URLSteps struct {
	Link *url.URL
}

// ImageSteps carries an image of the instructions.
type ImageSteps struct {
	Image Attachment
}

func (TextSteps) Kind() StepsKind  { return StepsText }
func (URLSteps) Kind() StepsKind   { return StepsURL }
func (ImageSteps) Kind() StepsKind { return StepsImage }

func (TextSteps) steps()  {}
func (URLSteps) steps()   {}
func (ImageSteps) steps() {}

// StoredSteps is the persisted form of Steps. Value is the text body, the URL,
// or the image filename; image bytes never reach the database.
// It serializes as a single-key object such as {"Text":"Boil and blend."}.
type StoredSteps struct {
	Kind  StepsKind
	Value string
}

// storeSteps converts submitted steps to their persisted form. imageFile is
// the content store name used when steps is an image.
func storeSteps(steps Steps, imageFile string) (StoredSteps, error) {
	switch s := steps.(type) {
	case TextSteps:
		return StoredSteps{Kind: StepsText, Value: s.Body}, nil
	case URLSteps:
		return StoredSteps{Kind: StepsURL, Value: s.Link.String()}, nil
	case ImageSteps:
		return StoredSteps{Kind: StepsImage, Value: imageFile}, nil
	default:
		return StoredSteps{}, fmt.Errorf("unsupported steps type %T", steps)
	}
}

func (s StoredSteps) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[StepsKind]string{s.Kind: s.Value})
}

func (s *StoredSteps) UnmarshalJSON(data []byte) error {
	var m map[StepsKind]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("steps: want exactly one variant, got %d", len(m))
	}

	for kind, value := range m {
		switch kind {
		case StepsText, StepsURL, StepsImage:
			s.Kind = kind
			s.Value = value
		default:
			return fmt.Errorf("steps: unknown variant %q", kind)
		}
	}
	return nil
}
