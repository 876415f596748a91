// internal/app/features/checklist/handler.go
package checklist

import (
	"net/http"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	engine "github.com/dalemusser/fleetcheckr/internal/app/system/checklist"
	"github.com/dalemusser/fleetcheckr/internal/app/system/formutil"
	"github.com/dalemusser/fleetcheckr/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/limits"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the checklist editor API.
type Handler struct {
	Svc    *Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a checklist Handler.
func NewHandler(svc *Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

type categoryInput struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type itemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type moveCategoryInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type moveItemInput struct {
	FromCategoryID string `json:"from_category_id"`
	ToCategoryID   string `json:"to_category_id"`
	From           int    `json:"from"`
	To             int    `json:"to"`
}

type replaceInput struct {
	Categories []models.Category `json:"categories"`
}

func cleanName(s string) string {
	return formutil.Truncate(htmlsanitize.PlainText(s), limits.MaxNameLength)
}

func cleanText(s string) string {
	return formutil.Truncate(htmlsanitize.PlainText(s), limits.MaxNotesLength)
}

// ServeChecklist returns the caller's checklist, seeding the default on
// first read.
func (h *Handler) ServeChecklist(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res := h.Svc.GetChecklist(ctx, id.OrgID, id.IsSuperAdmin)
	uierrors.RenderResult(w, res, errStatus(res))
}

// HandleReplace saves a full category list.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var in replaceInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode checklist", err, "Invalid checklist.")
		return
	}
	cats := make([]models.Category, 0, len(in.Categories))
	for _, c := range in.Categories {
		c.Name = cleanName(c.Name)
		c.Icon = cleanName(c.Icon)
		items := make([]models.Item, 0, len(c.Items))
		for _, it := range c.Items {
			it.Name = cleanName(it.Name)
			it.Description = cleanText(it.Description)
			items = append(items, it)
		}
		c.Items = items
		cats = append(cats, c)
	}

	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()
	res := h.Svc.Replace(ctx, id, cats)
	uierrors.RenderResult(w, res, errStatus(res))
}

// HandleAddCategory appends a category.
func (h *Handler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode category", err, "Invalid category.")
		return
	}
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		out, _, err := engine.AddCategory(cats, cleanName(in.Name), cleanName(in.Icon))
		return out, err
	})
}

// HandleUpdateCategory renames a category or changes its icon.
func (h *Handler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode category", err, "Invalid category.")
		return
	}
	catID := chi.URLParam(r, "categoryID")
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.UpdateCategory(cats, catID, cleanName(in.Name), cleanName(in.Icon))
	})
}

// HandleDeleteCategory removes a category and its items.
func (h *Handler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	catID := chi.URLParam(r, "categoryID")
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.DeleteCategory(cats, catID)
	})
}

// HandleAddItem appends an item to a category.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode item", err, "Invalid item.")
		return
	}
	catID := chi.URLParam(r, "categoryID")
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		out, _, err := engine.AddItem(cats, catID, cleanName(in.Name), cleanText(in.Description))
		return out, err
	})
}

// HandleUpdateItem edits an item's name and description.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode item", err, "Invalid item.")
		return
	}
	catID, itemID := chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemID")
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.UpdateItem(cats, catID, itemID, cleanName(in.Name), cleanText(in.Description))
	})
}

// HandleDeleteItem removes an item.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	catID, itemID := chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemID")
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.DeleteItem(cats, catID, itemID)
	})
}

// HandleMoveCategory reorders categories.
func (h *Handler) HandleMoveCategory(w http.ResponseWriter, r *http.Request) {
	var in moveCategoryInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode move", err, "Invalid move.")
		return
	}
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.MoveCategory(cats, in.From, in.To)
	})
}

// HandleMoveItem reorders items within one category.
func (h *Handler) HandleMoveItem(w http.ResponseWriter, r *http.Request) {
	var in moveItemInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode move", err, "Invalid move.")
		return
	}
	h.apply(w, r, func(cats []models.Category) ([]models.Category, error) {
		return engine.MoveItem(cats, in.FromCategoryID, in.ToCategoryID, in.From, in.To)
	})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, fn Mutation) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res := h.Svc.Apply(ctx, id, fn)
	uierrors.RenderResult(w, res, errStatus(res))
}

// errStatus separates storage failures from rejected edits.
func errStatus(res result.Result[[]models.Category]) int {
	switch res.Message() {
	case msgLoadFailed, msgSaveFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
