package web

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"datewheel/internal/catalog"
)

// VenueInput is the body of POST /api/venues and the venue form
type VenueInput struct {
	Name     string   `json:"name"     validate:"required,max=120"`
	District string   `json:"district" validate:"required,max=60"`
	Category string   `json:"category" validate:"required,category"`
	Tags     []string `json:"tags"     validate:"max=20,dive,max=40"`
}

// DistrictInput is the body of POST /api/districts and the district form
type DistrictInput struct {
	Name string `json:"name" validate:"required,max=60"`
}

// MemoryInput is the body of POST /api/memories and the memory form
type MemoryInput struct {
	VenueID string `json:"venueId" validate:"required"`
	Date    string `json:"date"    validate:"omitempty,datetime=2006-01-02"`
	Note    string `json:"note"    validate:"max=4000"`
	Image   string `json:"image"   validate:"omitempty,max=8000000,imageref"`
}

// SpinInput is the body of POST /api/spin
type SpinInput struct {
	Category  string   `json:"category"  validate:"required,category"`
	Districts []string `json:"districts" validate:"required,min=1,dive,required"`
	Exclude   []string `json:"exclude"`
}

// inputValidator checks request inputs before they reach the store
type inputValidator struct {
	validate *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return catalog.Category(fl.Field().String()).Valid()
	})
	// an inline data URL or an uploaded photo's http(s) URL
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.HasPrefix(s, "data:image/") {
			return true
		}
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})
	return &inputValidator{validate: v}
}

// Check normalizes then validates in
func (v *inputValidator) Check(in any) error {
	if n, ok := in.(interface{ normalize() }); ok {
		n.normalize()
	}
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "category":
		return fmt.Sprintf("%s must be one of %s, %s", fe.Field(), catalog.CategoryFood, catalog.CategoryDessertCoffee)
	case "imageref":
		return fmt.Sprintf("%s must be a data:image URL or an http(s) URL", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	case "max":
		return fmt.Sprintf("%s is too long", fe.Field())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (in *VenueInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.District = strings.TrimSpace(in.District)
	in.Category = strings.TrimSpace(in.Category)
	in.Tags = cleanTags(in.Tags)
}

func (in *DistrictInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in *MemoryInput) normalize() {
	in.VenueID = strings.TrimSpace(in.VenueID)
	in.Date = strings.TrimSpace(in.Date)
	in.Note = strings.TrimSpace(in.Note)
}

// splitTags turns "a, b,,c" into [a b c]
func splitTags(s string) []string {
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
