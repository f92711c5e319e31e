package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/appetiteapp/backend/internal/model"
	"github.com/appetiteapp/backend/internal/service"
)

// FlexInt is an integer that also accepts quoted numbers, which the mobile
// app sends for form-derived fields. Unparseable strings coerce to 0; the
// caller decides whether 0 is acceptable (prep time) or a rejection
// (category id, which never has a category 0 to match).
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(int(n))
	return nil
}

// CreateRecipeRequest is the create/update payload. All optional fields are
// explicit; validation happens in one place (Validate plus the store's own
// checks), not scattered per handler.
type CreateRecipeRequest struct {
	Title           string               `json:"title" validate:"required"`
	Description     string               `json:"description"`
	Ingredients     model.IngredientList `json:"ingredients"`
	Steps           string               `json:"steps"`
	PrepTimeMinutes FlexInt              `json:"prep_time_minutes"`
	CategoryID      FlexInt              `json:"category_id"`
	Difficulty      string               `json:"difficulty" validate:"required,difficulty"`
	Rating          FlexInt              `json:"rating" validate:"gte=0,lte=5"`
	ImageRef        string               `json:"image_ref"`
	ImageURL        string               `json:"image_url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return model.ParseDifficulty(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the payload shape. Domain rules (category existence,
// title uniqueness) are enforced by the store.
func (r *CreateRecipeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			field := strings.ToLower(errs[0].Field())
			switch errs[0].Tag() {
			case "required":
				return &model.ValidationError{Field: field, Message: "is required"}
			case "difficulty":
				return &model.ValidationError{Field: field, Message: "must be EASY, MEDIUM or HARD"}
			default:
				return &model.ValidationError{Field: field, Message: "is invalid"}
			}
		}
		return err
	}
	return nil
}

// ToInput converts the payload into the store's input type. The image
// reference is a single field: an uploaded file key or an absolute URL,
// whichever the payload carried.
func (r *CreateRecipeRequest) ToInput(ownerID uint) service.CreateRecipeInput {
	imageRef := r.ImageRef
	if imageRef == "" {
		imageRef = r.ImageURL
	}
	prep := int(r.PrepTimeMinutes)
	if prep < 0 {
		prep = 0
	}
	return service.CreateRecipeInput{
		Title:           r.Title,
		Description:     r.Description,
		Ingredients:     r.Ingredients,
		Steps:           r.Steps,
		PrepTimeMinutes: prep,
		CategoryID:      uint(r.CategoryID),
		Difficulty:      r.Difficulty,
		Rating:          int(r.Rating),
		ImageRef:        imageRef,
		OwnerID:         ownerID,
	}
}

// FavoriteRequest is the favorite-toggle body.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// DeleteRequest carries the fallback owner id for unauthenticated
// deployments; the token's user id wins when present.
type DeleteRequest struct {
	OwnerID uint `json:"owner_id"`
}
