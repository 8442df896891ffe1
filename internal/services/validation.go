package services

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/go-playground/validator/v10"
)

// ListingForm is the raw text a user typed into the new-listing form.
type ListingForm struct {
	Title       string `json:"title" validate:"required"`
	Price       string `json:"price" validate:"required,positive_number,max_price"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required,min=20"`
	Bedrooms    string `json:"bedrooms" validate:"omitempty,nonnegative_number"`
	Bathrooms   string `json:"bathrooms" validate:"omitempty,nonnegative_number"`
	Area        string `json:"area" validate:"omitempty,positive_number"`
	Type        string `json:"type"`
	Image       string `json:"image"`
}

// FieldErrors maps a form field to its single human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// Clear drops the message for one field, leaving the others in place.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

var fieldMessages = map[string]map[string]string{
	"title": {
		"required": "Title is required",
	},
	"price": {
		"required":        "Price is required",
		"positive_number": "Please enter a valid price",
		"max_price":       "Please enter a valid price",
	},
	"location": {
		"required": "Location is required",
	},
	"description": {
		"required": "Description is required",
		"min":      "Description must be at least 20 characters long",
	},
	"bedrooms": {
		"nonnegative_number": "Please enter a valid number of bedrooms",
	},
	"bathrooms": {
		"nonnegative_number": "Please enter a valid number of bathrooms",
	},
	"area": {
		"positive_number": "Please enter a valid area in square feet",
	},
}

type ListingValidator struct {
	validate *validator.Validate
}

func NewListingValidator() *ListingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("positive_number", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n > 0
	})
	_ = v.RegisterValidation("max_price", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n <= models.MaxPrice
	})
	_ = v.RegisterValidation("nonnegative_number", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n >= 0
	})
	return &ListingValidator{validate: v}
}

// Validate checks the trimmed form and returns one message per invalid
// field. An empty result means the form may be submitted.
func (v *ListingValidator) Validate(form ListingForm) FieldErrors {
	errs := FieldErrors{}
	trimmed := form.trimmed()

	err := v.validate.Struct(trimmed)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["form"] = "Please check the form"
		return errs
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, exists := errs[field]; exists {
			continue
		}
		msg, ok := fieldMessages[field][fe.Tag()]
		if !ok {
			msg = "Please enter a valid " + field
		}
		errs[field] = msg
	}
	return errs
}

func (f ListingForm) trimmed() ListingForm {
	return ListingForm{
		Title:       strings.TrimSpace(f.Title),
		Price:       strings.TrimSpace(f.Price),
		Location:    strings.TrimSpace(f.Location),
		Description: strings.TrimSpace(f.Description),
		Bedrooms:    strings.TrimSpace(f.Bedrooms),
		Bathrooms:   strings.TrimSpace(f.Bathrooms),
		Area:        strings.TrimSpace(f.Area),
		Type:        strings.TrimSpace(f.Type),
		Image:       strings.TrimSpace(f.Image),
	}
}

// ToInput converts a form that passed Validate into a store input.
// Room counts are rounded to the nearest whole number and an empty type
// defaults to House.
func (f ListingForm) ToInput() models.ListingInput {
	t := f.trimmed()
	price, _ := parseNumber(t.Price)

	input := models.ListingInput{
		Title:       t.Title,
		Price:       price,
		Location:    t.Location,
		Description: t.Description,
		Image:       t.Image,
		Type:        t.Type,
	}
	if input.Type == "" {
		input.Type = string(models.PropertyTypeHouse)
	}
	if n, ok := parseNumber(t.Bedrooms); ok && t.Bedrooms != "" {
		rooms := int(math.Round(n))
		input.Bedrooms = &rooms
	}
	if n, ok := parseNumber(t.Bathrooms); ok && t.Bathrooms != "" {
		rooms := int(math.Round(n))
		input.Bathrooms = &rooms
	}
	if n, ok := parseNumber(t.Area); ok && t.Area != "" {
		input.Area = &n
	}
	return input
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
