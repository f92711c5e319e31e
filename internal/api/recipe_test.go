package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteapp/backend/internal/model"
)

func doJSON(t *testing.T, engine http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateToggleGetScenario(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := testToken(t, 1)

	// Create with the Portuguese difficulty spelling the app sends.
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title":       "Bolo",
		"category_id": 1,
		"difficulty":  "FACIL",
		"ingredients": []map[string]string{{"name": "farinha", "quantity": "2 xícaras"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID          uint   `json:"id"`
		Favorite    bool   `json:"favorite"`
		Ingredients string `json:"ingredients"`
		Difficulty  string `json:"difficulty"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.False(t, created.Favorite)
	assert.Equal(t, "farinha (2 xícaras)", created.Ingredients)
	assert.Equal(t, model.DifficultyEasy, created.Difficulty)

	// Toggle on.
	w = doJSON(t, engine, "PUT", fmt.Sprintf("/api/v1/recipes/%d/favorita", created.ID), "", map[string]bool{"favorite": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status model.FavoriteStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, created.ID, status.ID)
	assert.True(t, status.Favorite)

	// Detail view reflects it.
	w = doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.True(t, fetched.Favorite)
	assert.Equal(t, "Sobremesas", fetched.CategoryName)
}

func TestCreateRecipeStringCoercions(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := testToken(t, 1)

	// Form-derived payloads arrive with quoted numbers and the ingredient
	// list as one string.
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title":             "Coxinha",
		"category_id":       "2",
		"difficulty":        "HARD",
		"prep_time_minutes": "not-a-number",
		"ingredients":       "massa (500g), frango (300g)",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		PrepTimeMinutes int    `json:"prep_time_minutes"`
		CategoryID      uint   `json:"category_id"`
		Ingredients     string `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 0, created.PrepTimeMinutes)
	assert.Equal(t, uint(2), created.CategoryID)
	assert.Equal(t, "massa (500g), frango (300g)", created.Ingredients)
}

func doMultipart(t *testing.T, engine http.Handler, token string, fields map[string]string, fileName string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/recipes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateRecipeMultipart(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := testToken(t, 1)

	// Form fields arrive as strings; the coercions must match the JSON path.
	w := doMultipart(t, engine, token, map[string]string{
		"title":             "Pão de Queijo",
		"category_id":       "2",
		"difficulty":        "MEDIO",
		"prep_time_minutes": "30",
		"rating":            "4",
		"ingredients":       "polvilho (500g), queijo (200g)",
	}, "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		PrepTimeMinutes int    `json:"prep_time_minutes"`
		CategoryID      uint   `json:"category_id"`
		Difficulty      string `json:"difficulty"`
		Rating          int    `json:"rating"`
		Ingredients     string `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 30, created.PrepTimeMinutes)
	assert.Equal(t, uint(2), created.CategoryID)
	assert.Equal(t, model.DifficultyMedium, created.Difficulty)
	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, "polvilho (500g), queijo (200g)", created.Ingredients)

	// Validation still runs on the multipart path.
	w = doMultipart(t, engine, token, map[string]string{
		"category_id": "2", "difficulty": "HARD",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An attached image while uploads are disabled is refused, not a crash.
	w = doMultipart(t, engine, token, map[string]string{
		"title": "Outro", "category_id": "2", "difficulty": "HARD",
	}, "foto.jpg", []byte("jpeg-bytes"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "image uploads are disabled")
}

func TestCreateRecipeErrors(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := testToken(t, 1)

	// No token.
	w := doJSON(t, engine, "POST", "/api/v1/recipes", "", map[string]interface{}{
		"title": "Bolo", "category_id": 1, "difficulty": "EASY",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing required fields.
	w = doJSON(t, engine, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"category_id": 1, "difficulty": "EASY",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Category outside the fixed set is rejected, not clamped.
	w = doJSON(t, engine, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title": "Bolo", "category_id": 42, "difficulty": "EASY",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate title is a distinguishable conflict.
	payload := map[string]interface{}{"title": "Bolo", "category_id": 1, "difficulty": "EASY"}
	w = doJSON(t, engine, "POST", "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, engine, "POST", "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestFavoriteMissingRecipe(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "PUT", "/api/v1/recipes/9999/favorita", "", map[string]bool{"favorite": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Body without the flag is a bad request.
	w = doJSON(t, engine, "PUT", "/api/v1/recipes/1/favorita", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRecipeOwnership(t *testing.T) {
	engine, _ := setupTestRouter(t)
	owner := testToken(t, 1)
	stranger := testToken(t, 2)

	w := doJSON(t, engine, "POST", "/api/v1/recipes", owner, map[string]interface{}{
		"title": "Bolo", "category_id": 1, "difficulty": "EASY",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Non-owner delete is forbidden and the recipe survives.
	w = doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", created.ID), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Anonymous delete with no owner id in the body is unauthorized.
	w = doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Owner delete succeeds.
	w = doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", created.ID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesFilters(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := testToken(t, 1)

	for i, spec := range []struct {
		title      string
		categoryID int
		difficulty string
	}{
		{"Bolo de Cenoura", 1, "EASY"},
		{"Brigadeiro", 1, "EASY"},
		{"Coxinha", 2, "HARD"},
	} {
		w := doJSON(t, engine, "POST", "/api/v1/recipes", token, map[string]interface{}{
			"title": spec.title, "category_id": spec.categoryID, "difficulty": spec.difficulty,
		})
		require.Equal(t, http.StatusCreated, w.Code, "recipe %d: %s", i, w.Body.String())
	}

	w := doJSON(t, engine, "GET", "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	// Category deep-link narrowing.
	w = doJSON(t, engine, "GET", "/api/v1/recipes?categoria=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var desserts []model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &desserts))
	assert.Len(t, desserts, 2)

	// Composed predicates.
	w = doJSON(t, engine, "GET", "/api/v1/recipes?q=bolo&difficulty=EASY", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Bolo de Cenoura", found[0].Title)

	// Bad category value is rejected.
	w = doJSON(t, engine, "GET", "/api/v1/recipes?categoria=doces", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []model.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 5)
	assert.Equal(t, "Sobremesas", categories[0].Name)
}
