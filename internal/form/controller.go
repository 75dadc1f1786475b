// Package form implements the product form: field state, validation, the
// release/revision date coupling, the identifier existence check and the
// create/update submission flow.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"productdesk/internal/client"
	"productdesk/internal/models"
	"productdesk/internal/notify"
	"productdesk/internal/validation"
)

// Mode is the form's operating mode.
type Mode int

const (
	// ModeCreate edits a new product.
	ModeCreate Mode = iota
	// ModeEdit edits an existing product; its identifier is locked.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Field names a form field.
type Field string

const (
	FieldID           Field = validation.FieldID
	FieldName         Field = validation.FieldName
	FieldDescription  Field = validation.FieldDescription
	FieldLogo         Field = validation.FieldLogo
	FieldDateRelease  Field = validation.FieldDateRelease
	FieldDateRevision Field = validation.FieldDateRevision
)

// Fields lists every field in display order.
var Fields = []Field{FieldID, FieldName, FieldDescription, FieldLogo, FieldDateRelease, FieldDateRevision}

var (
	// ErrInvalidForm is matched by every InvalidError.
	ErrInvalidForm = errors.New("form is invalid")
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrFieldLocked is returned when writing the identifier in edit mode.
	ErrFieldLocked = errors.New("field is locked")
	// ErrUnknownField is returned for a field the form does not have.
	ErrUnknownField = errors.New("unknown field")
)

// InvalidError is returned by Submit when validation blocks the submission.
type InvalidError struct {
	Violations validation.Violations
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(e.Violations.Messages(), "; "))
}

// Is makes errors.Is(err, ErrInvalidForm) hold.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalidForm
}

// ProductAPI is the part of the products API the form needs.
type ProductAPI interface {
	Verifier
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, u models.ProductUpdate) (*models.ProductResponse, error)
}

type fieldState struct {
	value   string
	touched bool
	dirty   bool
}

// Controller is a stateful product form.
type Controller struct {
	api      ProductAPI
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
	policy   ExistencePolicy
	rules    *validation.Validator
	checker  *ExistenceChecker

	mu         sync.Mutex
	mode       Mode
	productID  string
	fields     map[Field]*fieldState
	idResult   Existence
	submitting bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithExistencePolicy sets what a failed identifier check means.
func WithExistencePolicy(p ExistencePolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// NewController creates a form in create mode.
func NewController(api ProductAPI, notifier notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		notifier: notifier,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		policy:   FailOpen,
		fields:   blankFields(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = validation.New(c.now)
	c.checker = NewExistenceChecker(api, c.policy, c.logger)
	return c
}

func blankFields() map[Field]*fieldState {
	fields := make(map[Field]*fieldState, len(Fields))
	for _, f := range Fields {
		fields[f] = &fieldState{}
	}
	return fields
}

// Init prepares the form. An empty productID means create mode; otherwise the
// product is fetched and the form enters edit mode with the identifier locked.
func (c *Controller) Init(ctx context.Context, productID string) error {
	c.mu.Lock()
	c.fields = blankFields()
	c.idResult = Unchecked
	c.productID = productID
	if productID == "" {
		c.mode = ModeCreate
		c.mu.Unlock()
		return nil
	}
	c.mode = ModeEdit
	c.mu.Unlock()
	return c.load(ctx)
}

func (c *Controller) load(ctx context.Context) error {
	c.mu.Lock()
	id := c.productID
	c.mu.Unlock()

	p, err := c.api.GetProduct(ctx, id)
	if err != nil {
		c.logger.Error("loading product failed", "id", id, "error", err)
		notify.Error(c.notifier, "Error", client.MessageOf(err, "Could not load the product"))
		return fmt.Errorf("load product %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = blankFields()
	c.fields[FieldID].value = id
	c.fields[FieldName].value = p.Name
	c.fields[FieldDescription].value = p.Description
	c.fields[FieldLogo].value = p.Logo
	c.fields[FieldDateRelease].value = p.DateRelease
	c.fields[FieldDateRevision].value = p.DateRevision
	return nil
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Value returns a field's current value.
func (c *Controller) Value(f Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.fields[f]; ok {
		return st.value
	}
	return ""
}

// Locked reports whether f is read-only.
func (c *Controller) Locked(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f == FieldID && c.mode == ModeEdit
}

// SetValue writes a field as a user edit. Changing the release date rewrites
// the revision date to exactly one year later.
func (c *Controller) SetValue(f Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.fields[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if f == FieldID && c.mode == ModeEdit {
		return fmt.Errorf("%w: %s", ErrFieldLocked, f)
	}
	st.value = value
	st.dirty = true

	switch f {
	case FieldID:
		c.idResult = Unchecked
	case FieldDateRelease:
		if revision, err := validation.RevisionFor(value); err == nil {
			c.fields[FieldDateRevision].value = revision
		}
	}
	return nil
}

// Touch marks f as interacted with.
func (c *Controller) Touch(f Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.fields[f]; ok {
		st.touched = true
	}
}

// Touched reports whether f was interacted with.
func (c *Controller) Touched(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.fields[f]
	return ok && st.touched
}

// Dirty reports whether f was edited.
func (c *Controller) Dirty(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.fields[f]
	return ok && st.dirty
}

// MarkAllTouched makes every validation message visible.
func (c *Controller) MarkAllTouched() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markAllTouchedLocked()
}

func (c *Controller) markAllTouchedLocked() {
	for _, st := range c.fields {
		st.touched = true
	}
}

// Product returns the form contents as a product.
func (c *Controller) Product() models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.productLocked()
}

func (c *Controller) productLocked() models.Product {
	return models.Product{
		ID:           c.fields[FieldID].value,
		Name:         c.fields[FieldName].value,
		Description:  c.fields[FieldDescription].value,
		Logo:         c.fields[FieldLogo].value,
		DateRelease:  c.fields[FieldDateRelease].value,
		DateRevision: c.fields[FieldDateRevision].value,
	}
}

// Errors returns every current violation, including the outcome of the last
// identifier check.
func (c *Controller) Errors() validation.Violations {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.violationsLocked()
}

// FieldError returns the violation on f, if any.
func (c *Controller) FieldError(f Field) (validation.Violation, bool) {
	v, ok := c.Errors()[string(f)]
	return v, ok
}

// FieldInvalid reports whether f has a violation the user should see: the
// field is invalid and was either edited or touched.
func (c *Controller) FieldInvalid(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.fields[f]
	if !ok || !(st.dirty || st.touched) {
		return false
	}
	_, invalid := c.violationsLocked()[string(f)]
	return invalid
}

// Valid reports whether the form currently has no known violation. An
// identifier that was never checked does not count as a violation.
func (c *Controller) Valid() bool {
	return len(c.Errors()) == 0
}

// IDStatus returns the result of the last identifier check.
func (c *Controller) IDStatus() Existence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idResult
}

func (c *Controller) violationsLocked() validation.Violations {
	vs := c.rules.Validate(context.Background(), c.productLocked(), validation.Options{
		// A new product's revision is always derived, so only edits check it.
		CheckRevision: c.mode == ModeEdit,
	})
	if c.mode != ModeCreate {
		return vs
	}
	if _, bad := vs[validation.FieldID]; bad {
		return vs
	}
	if v, bad := c.existenceViolation(c.idResult); bad {
		if vs == nil {
			vs = validation.Violations{}
		}
		vs[validation.FieldID] = v
	}
	return vs
}

// existenceViolation maps an identifier check result to the violation it
// raises under the existence policy.
func (c *Controller) existenceViolation(result Existence) (validation.Violation, bool) {
	if !c.checker.Blocks(result) {
		return validation.Violation{}, false
	}
	rule := validation.RuleIDExists
	if result == CheckFailed {
		rule = validation.RuleIDUnverified
	}
	return validation.Violation{Field: validation.FieldID, Rule: rule}, true
}

// CheckID asks the API whether the current identifier is taken. It only runs
// in create mode and only once the identifier passes its own rules; otherwise
// it returns Unchecked without a network call.
func (c *Controller) CheckID(ctx context.Context) Existence {
	c.mu.Lock()
	if c.mode != ModeCreate {
		c.mu.Unlock()
		return Unchecked
	}
	id := c.fields[FieldID].value
	vs := c.rules.Validate(ctx, c.productLocked(), validation.Options{})
	c.mu.Unlock()
	if _, bad := vs[validation.FieldID]; bad {
		return Unchecked
	}
	return c.checkID(ctx, id)
}

// checkID runs the existence check for id and records the result while id is
// still the form's identifier.
func (c *Controller) checkID(ctx context.Context, id string) Existence {
	result := c.checker.Check(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Drop the answer if the identifier changed while the check was running.
	if c.mode == ModeCreate && c.fields[FieldID].value == id {
		c.idResult = result
	}
	return result
}

// Submitting reports whether a submission is in progress.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit validates the form and, when valid, creates or updates the product.
// An invalid form marks every field touched, raises a warning and makes no
// network call. A second Submit while one is running gets ErrSubmitInFlight.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.submitting = true
	if c.idResult == CheckFailed {
		// Retry a failed check rather than trusting its outcome.
		c.idResult = Unchecked
	}
	vs := c.violationsLocked()
	needsCheck := c.mode == ModeCreate && c.idResult == Unchecked
	p := c.productLocked()
	mode := c.mode
	id := c.productID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if len(vs) > 0 {
		return c.rejectInvalid(vs)
	}
	// The snapshot taken above is what gets sent, so it is judged by the
	// result for its own identifier even if the field changes meanwhile.
	if needsCheck {
		if v, bad := c.existenceViolation(c.checkID(ctx, p.ID)); bad {
			return c.rejectInvalid(validation.Violations{validation.FieldID: v})
		}
	}

	if mode == ModeCreate {
		return c.create(ctx, p)
	}
	return c.update(ctx, id, p)
}

func (c *Controller) rejectInvalid(vs validation.Violations) error {
	c.MarkAllTouched()
	notify.Warning(c.notifier, "Invalid form", "Please review the highlighted fields before saving")
	return &InvalidError{Violations: vs}
}

func (c *Controller) create(ctx context.Context, p models.Product) error {
	resp, err := c.api.CreateProduct(ctx, p)
	if err != nil {
		c.logger.Error("creating product failed", "id", p.ID, "error", err)
		notify.Error(c.notifier, "Error", client.MessageOf(err, "Could not create the product"))
		return fmt.Errorf("create product %s: %w", p.ID, err)
	}
	notify.Success(c.notifier, "Success", messageOr(resp, "Product created successfully"))

	c.mu.Lock()
	c.fields = blankFields()
	c.idResult = Unchecked
	c.mu.Unlock()
	return nil
}

func (c *Controller) update(ctx context.Context, id string, p models.Product) error {
	resp, err := c.api.UpdateProduct(ctx, id, p.WithoutID())
	if err != nil {
		c.logger.Error("updating product failed", "id", id, "error", err)
		notify.Error(c.notifier, "Error", client.MessageOf(err, "Could not update the product"))
		return fmt.Errorf("update product %s: %w", id, err)
	}
	notify.Success(c.notifier, "Success", messageOr(resp, "Product updated successfully"))
	return c.load(ctx)
}

// Reset discards edits: create mode blanks the form, edit mode reloads the
// stored product.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.mode == ModeCreate {
		c.fields = blankFields()
		c.idResult = Unchecked
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.load(ctx)
}

func messageOr(resp *models.ProductResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
