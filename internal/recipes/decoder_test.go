package recipes_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/recipe-lab/internal/recipes"
)

func TestDecode_Valid(t *testing.T) {
	req := mustDecode(t, tomatoSoup()...)

	if req.Name != "Tomato Soup" {
		t.Errorf("Name = %q, want %q", req.Name, "Tomato Soup")
	}
	if req.Rations != 4 {
		t.Errorf("Rations = %d, want 4", req.Rations)
	}
	if req.Thumbnail != nil {
		t.Error("Thumbnail should be nil")
	}

	want := []recipes.IngredientLine{{Ingredient: "tomato", Quantity: 500, Unit: recipes.UnitGrams}}
	if !slices.Equal(req.Ingredients, want) {
		t.Errorf("Ingredients = %+v, want %+v", req.Ingredients, want)
	}

	steps, ok := req.Steps.(recipes.TextSteps)
	if !ok {
		t.Fatalf("Steps = %T, want TextSteps", req.Steps)
	}
	if steps.Body != "Boil and blend." {
		t.Errorf("Steps.Body = %q, want %q", steps.Body, "Boil and blend.")
	}
}

func TestDecode_StepsVariants(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		req := mustDecode(t,
			text("name", "Soup"),
			text("rations", "2"),
			text("URL", "https://example.com/soup"),
		)

		steps, ok := req.Steps.(recipes.URLSteps)
		if !ok {
			t.Fatalf("Steps = %T, want URLSteps", req.Steps)
		}
		if steps.Link.String() != "https://example.com/soup" {
			t.Errorf("Link = %q", steps.Link)
		}
	})

	t.Run("image", func(t *testing.T) {
		req := mustDecode(t,
			text("name", "Soup"),
			text("rations", "2"),
			attachment("Image", "image/jpeg", jpegBytes),
		)

		steps, ok := req.Steps.(recipes.ImageSteps)
		if !ok {
			t.Fatalf("Steps = %T, want ImageSteps", req.Steps)
		}
		if !bytes.Equal(steps.Image.Data, jpegBytes) {
			t.Error("image bytes not preserved")
		}
		if steps.Image.Extension != "jpeg" {
			t.Errorf("Extension = %q, want jpeg", steps.Image.Extension)
		}
	})
}

func TestDecode_Thumbnail(t *testing.T) {
	req := mustDecode(t, append(tomatoSoup(), attachment("thumbnail", "image/jpeg; charset=binary", jpegBytes))...)

	if req.Thumbnail == nil {
		t.Fatal("Thumbnail should be set")
	}
	if req.Thumbnail.Extension != "jpeg" {
		t.Errorf("Extension = %q, want jpeg", req.Thumbnail.Extension)
	}
	if !bytes.Equal(req.Thumbnail.Data, jpegBytes) {
		t.Error("thumbnail bytes not preserved")
	}
}

func TestDecode_IngredientForms(t *testing.T) {
	req := mustDecode(t,
		text("name", "Omelette"),
		text("rations", "1"),
		text("ingredients[]", "egg,3,Units"),
		text("ingredients", `{"selected":"onion","quantity":1,"unit":"Units"}`),
		text("ingredients[]", " basil , 5 , Grams "),
		text("Text", "Whisk and fry."),
	)

	want := []recipes.IngredientLine{
		{Ingredient: "egg", Quantity: 3, Unit: recipes.UnitUnits},
		{Ingredient: "onion", Quantity: 1, Unit: recipes.UnitUnits},
		{Ingredient: "basil", Quantity: 5, Unit: recipes.UnitGrams},
	}
	if !slices.Equal(req.Ingredients, want) {
		t.Errorf("Ingredients = %+v, want %+v", req.Ingredients, want)
	}
}

func TestDecode_ScalarLastWins(t *testing.T) {
	req := mustDecode(t,
		text("name", "First"),
		text("rations", "1"),
		text("name", "Second"),
		text("rations", "6"),
		text("Text", "x"),
	)

	if req.Name != "Second" || req.Rations != 6 {
		t.Errorf("got name=%q rations=%d, want Second 6", req.Name, req.Rations)
	}
}

func TestDecode_ZeroRations(t *testing.T) {
	req := mustDecode(t, text("name", "Air"), text("rations", "0"), text("Text", "x"))
	if req.Rations != 0 {
		t.Errorf("Rations = %d, want 0", req.Rations)
	}
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		parts []part
		kind  error
		field string
	}{
		{
			name:  "unknown field",
			parts: append(tomatoSoup(), text("author", "me")),
			kind:  recipes.ErrUnknownField,
			field: "author",
		},
		{
			name:  "negative rations",
			parts: []part{text("rations", "-1")},
			kind:  recipes.ErrInvalidNumber,
			field: "rations",
		},
		{
			name:  "non numeric rations",
			parts: []part{text("rations", "four")},
			kind:  recipes.ErrInvalidNumber,
			field: "rations",
		},
		{
			name:  "rations overflow",
			parts: []part{text("rations", "4294967296")},
			kind:  recipes.ErrInvalidNumber,
			field: "rations",
		},
		{
			name:  "zero quantity",
			parts: []part{text("ingredients[]", "tomato,0,Grams")},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "unknown unit",
			parts: []part{text("ingredients[]", "tomato,5,Kilos")},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "missing unit",
			parts: []part{text("ingredients[]", "tomato,5")},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "empty ingredient name",
			parts: []part{text("ingredients[]", ",5,Grams")},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "malformed json line",
			parts: []part{text("ingredients[]", `{"selected":"tomato"`)},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "json line with extra key",
			parts: []part{text("ingredients[]", `{"selected":"tomato","quantity":5,"unit":"Grams","note":"ripe"}`)},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name: "duplicate ingredient",
			parts: []part{
				text("ingredients[]", "tomato,5,Grams"),
				text("ingredients[]", `{"selected":"tomato","quantity":2,"unit":"Units"}`),
			},
			kind:  recipes.ErrInvalidIngredientLine,
			field: "ingredients[]",
		},
		{
			name:  "png thumbnail",
			parts: []part{attachment("thumbnail", "image/png", jpegBytes)},
			kind:  recipes.ErrUnsupportedContentType,
			field: "thumbnail",
		},
		{
			name:  "thumbnail without content type",
			parts: []part{attachment("thumbnail", "", jpegBytes)},
			kind:  recipes.ErrMissingContentType,
			field: "thumbnail",
		},
		{
			name:  "png steps image",
			parts: []part{text("name", "Soup"), text("rations", "1"), attachment("Image", "image/png", jpegBytes)},
			kind:  recipes.ErrUnsupportedContentType,
			field: "Image",
		},
		{
			name:  "steps image without content type",
			parts: []part{attachment("Image", "", jpegBytes)},
			kind:  recipes.ErrMissingContentType,
			field: "Image",
		},
		{
			name:  "relative url",
			parts: []part{text("URL", "/recipes/soup")},
			kind:  recipes.ErrInvalidURL,
			field: "URL",
		},
		{
			name:  "url without host",
			parts: []part{text("URL", "mailto:chef@example.com")},
			kind:  recipes.ErrInvalidURL,
			field: "URL",
		},
		{
			name:  "unparsable url",
			parts: []part{text("URL", "http://[::1")},
			kind:  recipes.ErrInvalidURL,
			field: "URL",
		},
		{
			name:  "text steps not utf-8",
			parts: []part{text("Text", "Boil\xffand blend")},
			kind:  recipes.ErrMalformedBody,
			field: "Text",
		},
		{
			name:  "name not utf-8",
			parts: []part{text("name", "Sopa de \xe1gua")},
			kind:  recipes.ErrMalformedBody,
			field: "name",
		},
		{
			name:  "ingredient line not utf-8",
			parts: []part{text("ingredients[]", "tomato\xc3,2,Units")},
			kind:  recipes.ErrMalformedBody,
			field: "ingredients[]",
		},
		{
			name:  "name without letters or digits",
			parts: []part{text("name", "!!! ---"), text("rations", "1"), text("Text", "x")},
			kind:  recipes.ErrInvalidName,
			field: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := decodeParts(t, tt.parts...)
			if req != nil {
				t.Error("rejected submission should not produce a request")
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error = %v, want %v", err, tt.kind)
			}

			var de *recipes.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DecodeError", err)
			}
			if de.Field != tt.field {
				t.Errorf("Field = %q, want %q", de.Field, tt.field)
			}
		})
	}
}

func TestDecode_ConflictingSteps(t *testing.T) {
	variants := map[string]part{
		"Text":  text("Text", "Boil."),
		"URL":   text("URL", "https://example.com/soup"),
		"Image": attachment("Image", "image/jpeg", jpegBytes),
	}

	for first, a := range variants {
		for second, b := range variants {
			if first == second {
				continue
			}
			t.Run(first+"_then_"+second, func(t *testing.T) {
				_, err := decodeParts(t, text("name", "Soup"), text("rations", "2"), a, b)
				if !errors.Is(err, recipes.ErrConflictingSteps) {
					t.Fatalf("error = %v, want ErrConflictingSteps", err)
				}

				var de *recipes.DecodeError
				errors.As(err, &de)
				if de.Field != second {
					t.Errorf("Field = %q, want %q", de.Field, second)
				}
			})
		}
	}

	t.Run("same variant twice", func(t *testing.T) {
		_, err := decodeParts(t, text("Text", "a"), text("Text", "b"))
		if !errors.Is(err, recipes.ErrConflictingSteps) {
			t.Fatalf("error = %v, want ErrConflictingSteps", err)
		}
	})
}

func TestDecode_ConflictDetectedBeforeSecondPartIsValidated(t *testing.T) {
	_, err := decodeParts(t, text("Text", "Boil."), text("URL", "not a url"))
	if !errors.Is(err, recipes.ErrConflictingSteps) {
		t.Fatalf("error = %v, want ErrConflictingSteps", err)
	}
}

func TestDecode_IncompleteSubmission(t *testing.T) {
	tests := []struct {
		name    string
		parts   []part
		missing []string
	}{
		{"empty body", nil, []string{"name", "rations", "steps"}},
		{"no steps", []part{text("name", "Soup"), text("rations", "2")}, []string{"steps"}},
		{"no name", []part{text("rations", "2"), text("Text", "x")}, []string{"name"}},
		{"blank name", []part{text("name", "   "), text("rations", "2"), text("Text", "x")}, []string{"name"}},
		{"no rations", []part{text("name", "Soup"), text("URL", "https://example.com")}, []string{"rations"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeParts(t, tt.parts...)
			if !errors.Is(err, recipes.ErrIncompleteSubmission) {
				t.Fatalf("error = %v, want ErrIncompleteSubmission", err)
			}

			var de *recipes.DecodeError
			errors.As(err, &de)
			if !slices.Equal(de.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", de.Missing, tt.missing)
			}
		})
	}
}

func TestDecode_RejectionIsDeterministic(t *testing.T) {
	parts := []part{text("name", "Soup"), text("ingredients[]", "tomato,-3,Grams")}

	_, first := decodeParts(t, parts...)
	_, second := decodeParts(t, parts...)

	if first == nil || second == nil {
		t.Fatal("expected both decodes to fail")
	}
	if first.Error() != second.Error() {
		t.Errorf("errors differ: %q vs %q", first, second)
	}
}

func TestDecodeRequest_NotMultipart(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"name":"Soup"}`))
	r.Header.Set("Content-Type", "application/json")

	_, err := recipes.DecodeRequest(r)
	if !errors.Is(err, recipes.ErrMalformedBody) {
		t.Fatalf("error = %v, want ErrMalformedBody", err)
	}
}

func TestDecodeRequest_TruncatedBody(t *testing.T) {
	body, contentType := encodeForm(t, tomatoSoup()...)
	truncated := body.Bytes()[:body.Len()-10]

	r := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(truncated))
	r.Header.Set("Content-Type", contentType)

	_, err := recipes.DecodeRequest(r)
	if !errors.Is(err, recipes.ErrMalformedBody) {
		t.Fatalf("error = %v, want ErrMalformedBody", err)
	}
}

func TestDecodeRequest_PayloadTooLarge(t *testing.T) {
	large := bytes.Repeat([]byte{0xAB}, 64*1024)
	body, contentType := encodeForm(t, append(tomatoSoup(), attachment("thumbnail", "image/jpeg", large))...)

	r := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	r.Header.Set("Content-Type", contentType)
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 1024)

	_, err := recipes.DecodeRequest(r)
	if !errors.Is(err, recipes.ErrPayloadTooLarge) {
		t.Fatalf("error = %v, want ErrPayloadTooLarge", err)
	}
}
