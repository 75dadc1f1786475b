// Package validation holds the product record rules shared by the form
// controller and the development API server.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"productdesk/internal/models"
)

// Rule names reported for a failing field.
const (
	RuleRequired            = "required"
	RuleMinLength           = "minlength"
	RuleMaxLength           = "maxlength"
	RuleInvalidDate         = "invalidDate"
	RuleInvalidRevisionDate = "invalidRevisionDate"
	RuleIDExists            = "idExists"
	RuleIDUnverified        = "idUnverified"
)

// Product field names, as they appear on the wire.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLogo         = "logo"
	FieldDateRelease  = "date_release"
	FieldDateRevision = "date_revision"
)

// Fields lists every product field in form order.
var Fields = []string{FieldID, FieldName, FieldDescription, FieldLogo, FieldDateRelease, FieldDateRevision}

// tagRules maps validator tags to the rule names callers see.
var tagRules = map[string]string{
	"required":     RuleRequired,
	"min":          RuleMinLength,
	"max":          RuleMaxLength,
	"notpast":      RuleInvalidDate,
	"oneyearafter": RuleInvalidRevisionDate,
}

// Violation is a single failed rule on a field.
type Violation struct {
	Field string
	Rule  string
	Param string
}

// Message renders the violation for humans.
func (v Violation) Message() string {
	switch v.Rule {
	case RuleRequired:
		return fmt.Sprintf("%s is required", v.Field)
	case RuleMinLength:
		return fmt.Sprintf("%s must be at least %s characters", v.Field, v.Param)
	case RuleMaxLength:
		return fmt.Sprintf("%s must be at most %s characters", v.Field, v.Param)
	case RuleInvalidDate:
		return fmt.Sprintf("%s must be today or later", v.Field)
	case RuleInvalidRevisionDate:
		return fmt.Sprintf("%s must be exactly one year after the release date", v.Field)
	case RuleIDExists:
		return fmt.Sprintf("%s is already in use", v.Field)
	case RuleIDUnverified:
		return fmt.Sprintf("%s could not be verified", v.Field)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", v.Field, v.Rule)
	}
}

// Violations holds at most one violation per field, keyed by field name.
type Violations map[string]Violation

// Messages returns the violation messages sorted by field order.
func (vs Violations) Messages() []string {
	order := make(map[string]int, len(Fields))
	for i, f := range Fields {
		order[f] = i
	}
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Field] < order[out[j].Field] })
	msgs := make([]string, len(out))
	for i, v := range out {
		msgs[i] = v.Message()
	}
	return msgs
}

// Options tune a validation pass.
type Options struct {
	// Today overrides the current date; empty means the validator's clock.
	Today string
	// CheckRevision enables the exact revision = release + 1 year check.
	CheckRevision bool
}

type optionsKey struct{}

// Validator validates products against the catalog rules.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Validator. A nil clock means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notpast", validateNotPast)
	mustRegister(v, "oneyearafter", validateOneYearAfter)
	return &Validator{validate: v, now: now}
}

func mustRegister(v *validator.Validate, tag string, fn validator.FuncCtx) {
	if err := v.RegisterValidationCtx(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Today returns the validator's current calendar date.
func (v *Validator) Today() string {
	return Today(v.now())
}

// Validate checks every field of p and returns the failures, or nil.
func (v *Validator) Validate(ctx context.Context, p models.Product, opts Options) Violations {
	if opts.Today == "" {
		opts.Today = v.Today()
	}
	ctx = context.WithValue(ctx, optionsKey{}, opts)

	err := v.validate.StructCtx(ctx, p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Violations{"": {Rule: err.Error()}}
	}
	out := make(Violations, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule, ok := tagRules[fe.Tag()]
		if !ok {
			rule = fe.Tag()
		}
		out[fe.Field()] = Violation{Field: fe.Field(), Rule: rule, Param: fe.Param()}
	}
	return out
}

// ValidateUpdate checks an update payload for the product identified by id.
func (v *Validator) ValidateUpdate(ctx context.Context, id string, u models.ProductUpdate, opts Options) Violations {
	return v.Validate(ctx, u.WithID(id), opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)
	return opts
}

func validateNotPast(ctx context.Context, fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return NotPast(value, optionsFrom(ctx).Today)
}

func validateOneYearAfter(ctx context.Context, fl validator.FieldLevel) bool {
	if !optionsFrom(ctx).CheckRevision {
		return true
	}
	value := fl.Field().String()
	release := fl.Parent().FieldByName(fl.Param())
	if value == "" || !release.IsValid() || release.String() == "" {
		return true
	}
	return IsRevisionOf(value, release.String())
}
