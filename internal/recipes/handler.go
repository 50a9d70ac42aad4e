package recipes

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/recipe-lab/pkg/handlers"
	"github.com/JaimeStill/recipe-lab/pkg/routes"
)

// Prefix is the URL prefix of the recipe routes.
const Prefix = "/api/recipes"

type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "recipes"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      Prefix,
		Description: "Recipe ingestion",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{slug}", Handler: h.Find},
		},
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	req, err := DecodeRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	recipe, err := h.sys.Create(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondCreated(w, Prefix+"/"+recipe.Slug, recipe)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.sys.Find(r.Context(), r.PathValue("slug"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, recipe)
}
