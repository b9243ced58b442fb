package models

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so errors match what clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidateRecord runs the struct tags of rec and reports the first failure
// as a ValidationError.
func ValidateRecord(rec any) error {
	err := Validate.Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Reason: describeTag(fe)}
	}
	return &ValidationError{Reason: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// Filter selects records whose json fields equal every entry.
type Filter map[string]any

// Order names a json field to sort by. The zero Order keeps the driver's
// insertion order.
type Order struct {
	Field string
	Desc  bool
}

// ParseOrder reads "field" as ascending and "-field" as descending.
func ParseOrder(key string) Order {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "-") {
		return Order{Field: strings.TrimPrefix(key, "-"), Desc: true}
	}
	return Order{Field: strings.TrimPrefix(key, "+")}
}

func (o Order) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// Repository is the persistence driver behind a Store. Drivers return
// ErrNoRecord for absent ids and never validate.
type Repository[T any] interface {
	Insert(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter, order Order) ([]*T, error)
	Replace(ctx context.Context, id string, rec *T) error
	Delete(ctx context.Context, id string) error
}

// jsonFields lists the json names of T's exported fields.
func jsonFields[T any]() map[string]bool {
	fields := make(map[string]bool)
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}
	return fields
}
