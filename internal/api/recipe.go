package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/appetiteapp/backend/internal/middleware"
	"github.com/appetiteapp/backend/internal/model"
	"github.com/appetiteapp/backend/internal/service"
)

type RecipeHandler struct {
	recipes   *service.RecipeService
	favorites *service.FavoriteService
	images    *service.ImageService
}

func NewRecipeHandler(recipes *service.RecipeService, favorites *service.FavoriteService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		images:    images,
	}
}

// RegisterRoutes mounts the recipe routes on an API group. Reads and the
// viewer-scoped favorite toggle are public; creates and edits require the
// caller's identity and, when a limiter is configured, are rate limited.
func (h *RecipeHandler) RegisterRoutes(v1 *gin.RouterGroup, validator middleware.TokenValidator, limiter *middleware.RateLimiter) {
	recipes := v1.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)

		recipes.PUT("/:id/favorita", h.FavoriteRecipe)
		recipes.PATCH("/:id/favorita", h.FavoriteRecipe)

		// Delete takes the owner from the token when one is present and
		// falls back to the request body otherwise.
		recipes.DELETE("/:id", middleware.OptionalAuth(validator), h.DeleteRecipe)
	}

	protected := v1.Group("/recipes")
	protected.Use(middleware.AuthMiddleware(validator))
	if limiter != nil {
		protected.Use(limiter.RateLimitMiddleware())
	}
	{
		protected.POST("", h.CreateRecipe)
		protected.PUT("/:id", h.UpdateRecipe)
	}
}

// ListRecipes handles GET /recipes. The `categoria` query narrows
// server-side for category deep-links; q/difficulty/favorites serve polling
// clients. All predicates AND together.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var opts service.ListOptions

	if raw := c.Query("categoria"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidCategory.Error()})
			return
		}
		opts.CategoryID = uint(id)
	}
	opts.Search = c.Query("q")
	opts.Difficulty = c.Query("difficulty")
	opts.FavoritesOnly = c.Query("favorites") == "true"

	recipes, err := h.recipes.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	h.resolveImages(c, recipes)
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles GET /recipes/:id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.resolveImage(c, recipe)
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe handles POST /recipes, as JSON or as multipart with an
// attached image file.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	ownerID, exists := middleware.UserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	req, ok := h.bindRecipeRequest(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), req.ToInput(ownerID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe handles PUT /recipes/:id, owner only.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	ownerID, exists := middleware.UserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	req, ok := h.bindRecipeRequest(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, ownerID, req.ToInput(ownerID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /recipes/:id, owner only. The owner id comes
// from the token; an unauthenticated deployment may send it in the body.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	ownerID, exists := middleware.UserID(c)
	if !exists {
		var req DeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OwnerID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		ownerID = req.OwnerID
	}

	if err := h.recipes.Delete(c.Request.Context(), id, ownerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      id,
	})
}

// FavoriteRecipe handles PUT/PATCH /recipes/:id/favorita. The set is
// idempotent, so clients can retry freely.
func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "favorite field is required"})
		return
	}

	status, err := h.favorites.Toggle(c.Request.Context(), id, *req.Favorite)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *RecipeHandler) bindRecipeRequest(c *gin.Context) (*CreateRecipeRequest, bool) {
	var req CreateRecipeRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req = CreateRecipeRequest{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Ingredients: model.ParseIngredients(c.PostForm("ingredients")),
			Steps:       c.PostForm("steps"),
			Difficulty:  c.PostForm("difficulty"),
			ImageURL:    c.PostForm("image_url"),
		}
		// String-to-int coercions follow the JSON path: bad prep time and
		// rating fall back to 0, a bad category id never matches a category.
		if n, err := strconv.Atoi(c.PostForm("prep_time_minutes")); err == nil {
			req.PrepTimeMinutes = FlexInt(n)
		}
		if n, err := strconv.Atoi(c.PostForm("category_id")); err == nil {
			req.CategoryID = FlexInt(n)
		}
		if n, err := strconv.Atoi(c.PostForm("rating")); err == nil {
			req.Rating = FlexInt(n)
		}

		if file, err := c.FormFile("image"); err == nil && file != nil {
			if h.images == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are disabled"})
				return nil, false
			}
			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image upload"})
				return nil, false
			}
			defer src.Close()

			key, err := h.images.Upload(c.Request.Context(), src, file.Filename)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
				return nil, false
			}
			req.ImageRef = key
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	if err := req.Validate(); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &req, true
}

// resolveImages rewrites stored image references to fetchable URLs. A
// failed resolution degrades to the placeholder inside ResolveURL.
func (h *RecipeHandler) resolveImages(c *gin.Context, recipes []model.Recipe) {
	for i := range recipes {
		h.resolveImage(c, &recipes[i])
	}
}

func (h *RecipeHandler) resolveImage(c *gin.Context, recipe *model.Recipe) {
	if h.images == nil || recipe.ImageRef == "" {
		return
	}
	recipe.ImageRef = h.images.ResolveURL(c.Request.Context(), recipe.ImageRef)
}

func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDuplicateTitle):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidCategory), model.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
