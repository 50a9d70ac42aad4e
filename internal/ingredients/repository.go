package ingredients

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/recipe-lab/pkg/pagination"
	"github.com/JaimeStill/recipe-lab/pkg/query"
	"github.com/JaimeStill/recipe-lab/pkg/repository"
	"github.com/JaimeStill/recipe-lab/pkg/slug"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "ingredients"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.Request, filters Filters) (*pagination.Page[Ingredient], error) {
	page = page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count ingredients: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Limit(), page.Offset())
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanIngredient)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}

	result := pagination.NewPage(items, total, page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, name string) (*Ingredient, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("Name", name)

	item, err := repository.QueryOne(ctx, r.db, q, args, scanIngredient)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Ingredient, error) {
	name := slug.Make(cmd.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	diet, err := ParseDiet(cmd.Diet)
	if err != nil {
		return nil, err
	}

	item, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ingredient, error) {
		return repository.QueryOne(ctx, tx,
			`INSERT INTO ingredients (name, diet_type) VALUES ($1, $2) RETURNING name, diet_type`,
			[]any{name, string(diet)}, scanIngredient)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ingredient created", "name", item.Name, "diet", item.Diet)
	return &item, nil
}

func scanIngredient(s repository.Scanner) (Ingredient, error) {
	var (
		item Ingredient
		diet string
	)
	if err := s.Scan(&item.Name, &diet); err != nil {
		return Ingredient{}, err
	}
	item.Diet = Diet(diet)
	return item, nil
}
