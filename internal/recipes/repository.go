package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/recipe-lab/pkg/repository"
	"github.com/JaimeStill/recipe-lab/pkg/slug"
	"github.com/JaimeStill/recipe-lab/pkg/storage"
)

const (
	insertRecipe = `INSERT INTO recipes (name, thumbnail, rations, steps)
		VALUES ($1, $2, $3, $4)`

	insertIngredient = `INSERT INTO recipe_ingredients (recipe_name, ingredient_name, quantity, unit, position)
		VALUES ($1, $2, $3, $4, $5)`

	selectRecipe = `SELECT name, thumbnail, rations, steps FROM recipes WHERE name = $1`

	selectIngredients = `SELECT ingredient_name, quantity, unit FROM recipe_ingredients
		WHERE recipe_name = $1 ORDER BY position`
)

type repo struct {
	db      *sql.DB
	storage storage.System
	logger  *slog.Logger
}

// New creates a recipe repository over a database and an attachment content store.
func New(db *sql.DB, store storage.System, logger *slog.Logger) System {
	return &repo{
		db:      db,
		storage: store,
		logger:  logger.With("system", "recipes"),
	}
}

// plan is a request resolved against its slug: the row values and the
// attachments that must exist once the row is visible.
type plan struct {
	slug        string
	thumbnail   *string
	steps       StoredSteps
	attachments []pending
}

type pending struct {
	key  string
	data []byte
}

func newPlan(req *IngestionRequest) (*plan, error) {
	p := &plan{slug: slug.Make(req.Name)}
	if p.slug == "" {
		return nil, decodeErr(ErrInvalidName, FieldName, nil)
	}
	if req.Steps == nil {
		return nil, &DecodeError{Kind: ErrIncompleteSubmission, Missing: []string{fieldSteps}}
	}

	if t := req.Thumbnail; t != nil {
		name := ThumbnailFilename(p.slug, t.Extension)
		p.thumbnail = &name
		p.attachments = append(p.attachments, pending{key: name, data: t.Data})
	}

	var imageFile string
	if img, ok := req.Steps.(ImageSteps); ok {
		imageFile = StepImageFilename(p.slug, img.Image.Extension)
		p.attachments = append(p.attachments, pending{key: imageFile, data: img.Image.Data})
	}

	steps, err := storeSteps(req.Steps, imageFile)
	if err != nil {
		return nil, err
	}
	p.steps = steps

	return p, nil
}

// Create stages attachments under temporary names, commits the rows, then
// promotes the attachments into place. A failed promotion is compensated by
// deleting the committed rows.
func (r *repo) Create(ctx context.Context, req *IngestionRequest) (*Recipe, error) {
	p, err := newPlan(req)
	if err != nil {
		return nil, err
	}

	staged := make([]*storage.Staged, 0, len(p.attachments))
	defer func() {
		for _, s := range staged {
			s.Discard()
		}
	}()

	for _, a := range p.attachments {
		s, err := r.storage.Stage(ctx, a.key, a.data)
		if err != nil {
			return nil, persistErr(ErrAttachmentWrite, p.slug, err)
		}
		staged = append(staged, s)
	}

	recipe, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Recipe, error) {
		return r.insert(ctx, tx, p, req)
	})
	if err != nil {
		return nil, classifyTxError(p.slug, err)
	}

	if err := r.promote(ctx, p.slug, staged); err != nil {
		return nil, err
	}

	r.logger.Info("recipe created",
		"slug", recipe.Slug,
		"ingredients", len(recipe.Ingredients),
		"attachments", len(staged),
		"steps", recipe.Steps.Kind,
	)
	return &recipe, nil
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, p *plan, req *IngestionRequest) (Recipe, error) {
	stepsJSON, err := json.Marshal(p.steps)
	if err != nil {
		return Recipe{}, persistErr(ErrTransactionFailed, p.slug, fmt.Errorf("encode steps: %w", err))
	}

	if _, err := tx.ExecContext(ctx, insertRecipe, p.slug, p.thumbnail, int64(req.Rations), string(stepsJSON)); err != nil {
		if repository.IsUniqueViolation(err) {
			return Recipe{}, persistErr(ErrSlugCollision, p.slug, err)
		}
		return Recipe{}, persistErr(ErrTransactionFailed, p.slug, fmt.Errorf("insert recipe: %w", err))
	}

	lines := make([]IngredientLine, 0, len(req.Ingredients))
	for i, line := range req.Ingredients {
		_, err := tx.ExecContext(ctx, insertIngredient,
			p.slug, line.Ingredient, int64(line.Quantity), string(line.Unit), i)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				return Recipe{}, persistErr(ErrUnknownIngredient, p.slug, fmt.Errorf("%s: %w", line.Ingredient, err))
			}
			return Recipe{}, persistErr(ErrTransactionFailed, p.slug, fmt.Errorf("insert ingredient %s: %w", line.Ingredient, err))
		}
		lines = append(lines, line)
	}

	return Recipe{
		Slug:        p.slug,
		Thumbnail:   p.thumbnail,
		Rations:     req.Rations,
		Steps:       p.steps,
		Ingredients: lines,
	}, nil
}

// classifyTxError maps begin and commit failures. Errors raised inside the
// transaction body are already typed.
func classifyTxError(slug string, err error) error {
	var pe *PersistError
	if errors.As(err, &pe) {
		return pe
	}
	switch {
	case repository.IsUniqueViolation(err):
		return persistErr(ErrSlugCollision, slug, err)
	case repository.IsForeignKeyViolation(err):
		return persistErr(ErrUnknownIngredient, slug, err)
	default:
		return persistErr(ErrTransactionFailed, slug, err)
	}
}

func (r *repo) promote(ctx context.Context, slug string, staged []*storage.Staged) error {
	promoted := make([]string, 0, len(staged))

	for _, s := range staged {
		if err := s.Promote(); err != nil {
			r.compensate(ctx, slug, promoted)
			return persistErr(ErrAttachmentWrite, slug, err)
		}
		promoted = append(promoted, s.Key)
	}

	return nil
}

// compensate removes a committed recipe whose attachments could not be put in
// place. It runs detached from ctx so a cancelled request still cleans up.
func (r *repo) compensate(ctx context.Context, slug string, promoted []string) {
	ctx = context.WithoutCancel(ctx)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_name = $1`, slug); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM recipes WHERE name = $1`, slug)
	})
	if err != nil {
		r.logger.Error("compensating delete failed", "slug", slug, "error", err)
	}

	for _, key := range promoted {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("attachment cleanup failed", "slug", slug, "key", key, "error", err)
		}
	}

	r.logger.Warn("recipe rolled back after attachment failure", "slug", slug)
}

func (r *repo) Find(ctx context.Context, slug string) (*Recipe, error) {
	recipe, err := repository.QueryOne(ctx, r.db, selectRecipe, []any{slug}, scanRecipe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query recipe: %w", err)
	}

	lines, err := repository.QueryMany(ctx, r.db, selectIngredients, []any{slug}, scanIngredientLine)
	if err != nil {
		return nil, fmt.Errorf("query recipe ingredients: %w", err)
	}
	recipe.Ingredients = lines

	return &recipe, nil
}

func scanRecipe(s repository.Scanner) (Recipe, error) {
	var (
		rec       Recipe
		thumbnail sql.NullString
		rations   int64
		steps     string
	)

	if err := s.Scan(&rec.Slug, &thumbnail, &rations, &steps); err != nil {
		return Recipe{}, err
	}

	if thumbnail.Valid {
		rec.Thumbnail = &thumbnail.String
	}
	rec.Rations = uint32(rations)

	if err := json.Unmarshal([]byte(steps), &rec.Steps); err != nil {
		return Recipe{}, fmt.Errorf("decode steps: %w", err)
	}

	return rec, nil
}

func scanIngredientLine(s repository.Scanner) (IngredientLine, error) {
	var (
		line     IngredientLine
		quantity int64
		unit     string
	)

	if err := s.Scan(&line.Ingredient, &quantity, &unit); err != nil {
		return IngredientLine{}, err
	}

	line.Quantity = uint32(quantity)
	line.Unit = Unit(unit)
	return line, nil
}
