package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
)

var validatorsOnce sync.Once

// registerValidators teaches gin's validator the domain enums and makes it
// report JSON field names.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterValidation("question_category", func(fl validator.FieldLevel) bool {
			return models.ValidQuestionCategory(fl.Field().String())
		})
		v.RegisterValidation("post_category", func(fl validator.FieldLevel) bool {
			return models.ValidPostCategory(fl.Field().String())
		})
		v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseMealType(fl.Field().String())
			return ok
		})
		v.RegisterValidation("appointment_type", func(fl validator.FieldLevel) bool {
			return models.AppointmentType(fl.Field().String()).Valid()
		})
		v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
			return models.AppointmentStatus(fl.Field().String()).Valid()
		})
	})
}

// bindJSON binds and validates the body, turning failures into 400s that
// name the offending fields.
func bindJSON(c *gin.Context, dst interface{}) error {
	return bindError(c.ShouldBindJSON(dst))
}

func bindError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var missing, invalid []string
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				invalid = append(invalid, fe.Field())
			}
		}
		if len(missing) > 0 {
			return errValidation("Please provide all required fields: " + strings.Join(missing, ", "))
		}
		return errValidation("Invalid value for " + strings.Join(invalid, ", "))
	}
	if errors.Is(err, io.EOF) {
		return errValidation("Please provide all required fields")
	}
	var fe *fieldError
	if errors.As(err, &fe) {
		return errValidation(fe.Error())
	}
	return errValidation("Invalid request body")
}

type fieldError struct {
	kind  string
	value string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.kind, e.value)
}

// flexFloat accepts 12.5 as well as "12.5", which form posts often send.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	// ParseFloat accepts NaN and Inf, which JSON cannot encode back.
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &fieldError{kind: "number", value: s}
	}
	*f = flexFloat(v)
	return nil
}

func (f *flexFloat) value() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// flexTime accepts RFC 3339 timestamps, datetime-local values and plain dates.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := parseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &fieldError{kind: "date", value: s}
}

// queryDate parses an optional date query parameter.
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, errValidation(fmt.Sprintf("Invalid %s, expected YYYY-MM-DD", key))
	}
	return &t, nil
}
