package ingredients_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/recipe-lab/internal/ingredients"
	"github.com/JaimeStill/recipe-lab/internal/migrations"
	"github.com/JaimeStill/recipe-lab/pkg/database"
	"github.com/JaimeStill/recipe-lab/pkg/pagination"
	"github.com/JaimeStill/recipe-lab/pkg/query"
	"github.com/JaimeStill/recipe-lab/pkg/routes"
)

var pageConfig = pagination.Config{DefaultPageSize: 2, MaxPageSize: 3}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "catalog.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	sys, err := database.New(cfg, testLogger())
	if err != nil {
		t.Fatalf("database.New() failed: %v", err)
	}
	t.Cleanup(func() { sys.Connection().Close() })

	if err := migrations.Up(cfg, testLogger()); err != nil {
		t.Fatalf("migrations.Up() failed: %v", err)
	}

	return sys.Connection()
}

func TestParseDiet(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Vegan", false},
		{"Vegetarian", false},
		{"Omnivore", false},
		{"vegan", true},
		{"Pescatarian", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ingredients.ParseDiet(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDiet(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ingredients.ErrInvalidDiet) {
				t.Errorf("error %v should wrap ErrInvalidDiet", err)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	sys := ingredients.New(newTestDB(t), testLogger(), pageConfig)
	ctx := context.Background()

	item, err := sys.Create(ctx, ingredients.CreateCommand{Name: "Olive Oil", Diet: "Vegan"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if item.Name != "olive-oil" || item.Diet != ingredients.DietVegan {
		t.Errorf("Create() = %+v", item)
	}

	found, err := sys.Find(ctx, "olive-oil")
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if *found != *item {
		t.Errorf("Find() = %+v, want %+v", found, item)
	}
}

func TestCreate_Rejections(t *testing.T) {
	sys := ingredients.New(newTestDB(t), testLogger(), pageConfig)
	ctx := context.Background()

	if _, err := sys.Create(ctx, ingredients.CreateCommand{Name: "Olive Oil", Diet: "Vegan"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	tests := []struct {
		name string
		cmd  ingredients.CreateCommand
		want error
	}{
		{"duplicate after kebab-case", ingredients.CreateCommand{Name: "olive  OIL", Diet: "Vegan"}, ingredients.ErrDuplicate},
		{"invalid diet", ingredients.CreateCommand{Name: "Anchovy", Diet: "Fish"}, ingredients.ErrInvalidDiet},
		{"empty name", ingredients.CreateCommand{Name: "***", Diet: "Vegan"}, ingredients.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Create(ctx, tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func seedCatalog(t *testing.T, sys ingredients.System) {
	t.Helper()
	for _, cmd := range []ingredients.CreateCommand{
		{Name: "Tomato", Diet: "Vegan"},
		{Name: "Bacon", Diet: "Omnivore"},
		{Name: "Egg", Diet: "Vegetarian"},
		{Name: "Tofu", Diet: "Vegan"},
		{Name: "Beef_Stock", Diet: "Omnivore"},
	} {
		if _, err := sys.Create(context.Background(), cmd); err != nil {
			t.Fatalf("Create(%s) failed: %v", cmd.Name, err)
		}
	}
}

func names(items []ingredients.Ingredient) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestList(t *testing.T) {
	sys := ingredients.New(newTestDB(t), testLogger(), pageConfig)
	seedCatalog(t, sys)

	vegan := "Vegan"
	search := "T"
	underscore := "_"

	tests := []struct {
		name      string
		page      pagination.Request
		filters   ingredients.Filters
		want      []string
		wantTotal int
		wantPages int
	}{
		{
			name:      "first page by name",
			page:      pagination.Request{Page: 1},
			want:      []string{"bacon", "beef-stock"},
			wantTotal: 5,
			wantPages: 3,
		},
		{
			name:      "last page",
			page:      pagination.Request{Page: 3},
			want:      []string{"tomato"},
			wantTotal: 5,
			wantPages: 3,
		},
		{
			name:      "page size capped",
			page:      pagination.Request{Page: 1, PageSize: 50},
			want:      []string{"bacon", "beef-stock", "egg"},
			wantTotal: 5,
			wantPages: 2,
		},
		{
			name:      "diet filter",
			page:      pagination.Request{Page: 1},
			filters:   ingredients.Filters{Diet: &vegan},
			want:      []string{"tofu", "tomato"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name:      "search is case-insensitive",
			page:      pagination.Request{Page: 1, PageSize: 3, Search: &search},
			want:      []string{"beef-stock", "tofu", "tomato"},
			wantTotal: 3,
			wantPages: 1,
		},
		{
			name:      "search treats wildcards literally",
			page:      pagination.Request{Page: 1, Search: &underscore},
			want:      []string{},
			wantTotal: 0,
			wantPages: 1,
		},
		{
			name: "sort by diet descending, ties by name",
			page: pagination.Request{
				Page:     1,
				PageSize: 3,
				Sort:     []query.SortField{{Field: "diet", Descending: true}},
			},
			want:      []string{"egg", "tofu", "tomato"},
			wantTotal: 5,
			wantPages: 2,
		},
		{
			name: "unknown sort field ignored",
			page: pagination.Request{
				Page: 1,
				Sort: []query.SortField{{Field: "calories"}},
			},
			want:      []string{"bacon", "beef-stock"},
			wantTotal: 5,
			wantPages: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sys.List(context.Background(), tt.page, tt.filters)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}

			got := names(result.Data)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Data = %v, want %v", got, tt.want)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", result.Total, tt.wantTotal)
			}
			if result.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestFind_NotFound(t *testing.T) {
	sys := ingredients.New(newTestDB(t), testLogger(), pageConfig)

	if _, err := sys.Find(context.Background(), "saffron"); !errors.Is(err, ingredients.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHandler(t *testing.T) {
	sys := ingredients.New(newTestDB(t), testLogger(), pageConfig)

	r := routes.New()
	r.RegisterGroup(ingredients.NewHandler(sys, testLogger(), pageConfig).Routes())
	h := r.Build()

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ingredients", bytes.NewBufferString(body))
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"name":"Sea Salt","diet":"Vegan"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/ingredients/sea-salt" {
		t.Errorf("Location = %q", loc)
	}

	if rec := post(`{"name":"sea salt","diet":"Vegan"}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
	if rec := post(`{"name":"Krill","diet":"Fish"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid diet status = %d, want 400", rec.Code)
	}
	if rec := post(`not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ingredients", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var page pagination.Page[ingredients.Ingredient]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].Name != "sea-salt" {
		t.Errorf("list = %+v", page)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingredients/search?diet=Omnivore",
		bytes.NewBufferString(`{"page":1,"search":"salt"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	page = pagination.Page[ingredients.Ingredient]{}
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if page.Total != 0 || len(page.Data) != 0 {
		t.Errorf("search = %+v, want empty", page)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingredients/search", bytes.NewBufferString("{")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed search status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ingredients/pepper", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("find status = %d, want 404", rec.Code)
	}
}
