package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"productdesk/internal/form"
	"productdesk/internal/list"
	"productdesk/internal/models"
	"productdesk/internal/validation"
)

var fieldTitles = map[form.Field]string{
	form.FieldID:           "ID",
	form.FieldName:         "Name",
	form.FieldDescription:  "Description",
	form.FieldLogo:         "Logo",
	form.FieldDateRelease:  "Release date",
	form.FieldDateRevision: "Revision date",
}

var fieldHints = map[form.Field]string{
	form.FieldID:           "3 to 10 characters",
	form.FieldName:         "5 to 100 characters",
	form.FieldDescription:  "10 to 200 characters",
	form.FieldLogo:         "URL of the logo image",
	form.FieldDateRelease:  "YYYY-MM-DD, today or later",
}

// fieldValidator writes the input into the controller and reports the field's
// violation. A valid identifier in create mode is also checked against the API.
func fieldValidator(ctx context.Context, fc *form.Controller, f form.Field) func(string) error {
	return func(value string) error {
		if err := fc.SetValue(f, value); err != nil {
			return err
		}
		fc.Touch(f)
		if f == form.FieldID && fc.Mode() == form.ModeCreate {
			if _, bad := fc.FieldError(f); !bad {
				fc.CheckID(ctx)
			}
		}
		if v, bad := fc.FieldError(f); bad {
			return errors.New(v.Message())
		}
		return nil
	}
}

// NewProductForm builds an interactive form bound to fc. The identifier is
// not editable in edit mode.
func NewProductForm(ctx context.Context, fc *form.Controller) *huh.Form {
	return huh.NewForm(huh.NewGroup(productFields(ctx, fc)...))
}

// productFields returns the form fields keyed by field name. The revision
// date is never an input; edit mode shows the date derived from the release
// input as a note.
func productFields(ctx context.Context, fc *form.Controller) []huh.Field {
	var fields []huh.Field
	if fc.Mode() == form.ModeEdit {
		fields = append(fields, huh.NewNote().
			Title(fmt.Sprintf("Editing %s", fc.Value(form.FieldID))).
			Description("The identifier cannot be changed"))
	}

	var release *string
	for _, f := range form.Fields {
		if fc.Locked(f) || f == form.FieldDateRevision {
			continue
		}
		value := fc.Value(f)
		if f == form.FieldDateRelease {
			release = &value
		}
		input := huh.NewInput().
			Key(string(f)).
			Title(fieldTitles[f]).
			Description(fieldHints[f]).
			Value(&value).
			Validate(fieldValidator(ctx, fc, f))
		if f == form.FieldDescription {
			input = input.CharLimit(200)
		}
		fields = append(fields, input)
	}

	if fc.Mode() == form.ModeEdit {
		fields = append(fields, huh.NewNote().
			Title(fieldTitles[form.FieldDateRevision]).
			DescriptionFunc(func() string { return revisionSummary(*release) }, release))
	}
	return fields
}

// revisionSummary describes the revision date derived from release.
func revisionSummary(release string) string {
	revision, err := validation.RevisionFor(release)
	if err != nil {
		return "Set from a valid release date"
	}
	return fmt.Sprintf("%s, one year after release", list.FormatDate(revision))
}

// ConfirmDelete asks whether p should be deleted.
func ConfirmDelete(ctx context.Context, p models.Product) (bool, error) {
	confirmed := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Are you sure you want to delete the product %s?", p.Name)).
			Affirmative("Confirm").
			Negative("Cancel").
			Value(&confirmed),
	)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return confirmed, err
}
