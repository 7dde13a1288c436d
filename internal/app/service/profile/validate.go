package profile

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fatflowers/vcard/internal/render"
	"github.com/fatflowers/vcard/pkg/types"
)

// ValidationError maps a field path (json names) to a message.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var (
	reHHMM       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	rePhoneChars = regexp.MustCompile(`[^0-9+]`)
	priceStrip   = strings.NewReplacer("$", "", ",", "", " ", "")
)

// Validator checks profile input with go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return len(rePhoneChars.ReplaceAllString(fl.Field().String(), "")) >= 10
	})
	mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
		return reHHMM.MatchString(fl.Field().String())
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseFloat(priceStrip.Replace(fl.Field().String()), 64)
		return err == nil
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		for _, d := range types.Weekdays {
			if d == fl.Field().String() {
				return true
			}
		}
		return false
	})
	mustRegister(v, "template", func(fl validator.FieldLevel) bool {
		_, ok := render.LookupTemplate(fl.Field().String())
		return ok
	})
	mustRegister(v, "colorscheme", func(fl validator.FieldLevel) bool {
		_, ok := render.LookupColorScheme(fl.Field().String())
		return ok
	})
	v.RegisterStructValidation(requiredByType, Input{})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// requiredByType enforces business_name/email/phone for business profiles and
// first_name/last_name/email for personal ones.
func requiredByType(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	need := func(value, field, name string) {
		if strings.TrimSpace(value) == "" {
			sl.ReportError(value, field, name, "required", "")
		}
	}
	if in.IsBusiness() {
		need(in.BusinessName, "business_name", "BusinessName")
		need(in.Email, "email", "Email")
		need(in.Phone, "phone", "Phone")
		return
	}
	need(in.FirstName, "first_name", "FirstName")
	need(in.LastName, "last_name", "LastName")
	need(in.Email, "email", "Email")
}

// Validate returns a *ValidationError listing every failing field, or nil.
func (v *Validator) Validate(in *Input) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root struct name: "Input.services[0].name" -> "services[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must contain at least 10 digits"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "price":
		return "must be a number"
	case "weekday":
		return "must be a weekday name"
	case "template":
		return "unknown template"
	case "colorscheme":
		return "unknown color scheme"
	case "hexcolor", "len":
		if fe.Field() == "primary_color" || fe.Field() == "secondary_color" {
			return "must be a #rrggbb color"
		}
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "latitude", "longitude":
		return "must be a valid " + fe.Tag()
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	}
	return fmt.Sprintf("failed on '%s'", fe.Tag())
}
