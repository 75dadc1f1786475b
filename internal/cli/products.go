package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"productdesk/internal/client"
	"productdesk/internal/form"
	"productdesk/internal/list"
	"productdesk/internal/models"
	"productdesk/internal/notify"
	"productdesk/internal/ui"
)

func newListCommand(e *env) *cobra.Command {
	var (
		search   string
		pageSize int
		page     int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products, optionally filtered by name or description",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if pageSize == 0 {
				pageSize = e.cfg.PageSize
			}
			if !list.ValidPageSize(pageSize) {
				return fmt.Errorf("%w: %d, choose one of %v", list.ErrInvalidPageSize, pageSize, list.PageSizeOptions)
			}

			lc := list.NewController(e.api, e.notes, e.logger)
			defer lc.Close()
			if err := lc.Load(cmd.Context()); err != nil {
				e.flush(out)
				return err
			}
			if err := lc.ChangePageSize(pageSize); err != nil {
				return err
			}
			lc.Search(search)
			if err := lc.GoToPage(page); err != nil {
				return err
			}

			fmt.Fprintln(out, ui.RenderProducts(lc.Page()))
			fmt.Fprintln(out, ui.RenderPager(lc))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter on name and description")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "products per page: 5, 10 or 20 (default from config)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	return cmd
}

func newGetCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p, err := e.api.GetProduct(cmd.Context(), args[0])
			if err != nil {
				notify.Error(e.notes, "Error", client.MessageOf(err, "Could not load the product"))
				e.flush(out)
				return err
			}
			fmt.Fprintln(out, ui.RenderProduct(*p))
			return nil
		},
	}
}

// productFlags are the field flags shared by create and edit.
type productFlags struct {
	id, name, description, logo, release, revision string
	interactive                                    bool
}

func (pf *productFlags) register(cmd *cobra.Command, withID, withRevision bool) {
	if withID {
		cmd.Flags().StringVar(&pf.id, "id", "", "product identifier (3 to 10 characters)")
	}
	cmd.Flags().StringVar(&pf.name, "name", "", "product name (5 to 100 characters)")
	cmd.Flags().StringVar(&pf.description, "description", "", "description (10 to 200 characters)")
	cmd.Flags().StringVar(&pf.logo, "logo", "", "logo URL")
	cmd.Flags().StringVar(&pf.release, "release", "", "release date, YYYY-MM-DD, today or later")
	if withRevision {
		cmd.Flags().StringVar(&pf.revision, "revision", "", "revision date, exactly one year after release")
	}
	cmd.Flags().BoolVarP(&pf.interactive, "interactive", "i", false, "fill the form interactively")
}

// apply writes every flag the user set into fc.
func (pf *productFlags) apply(cmd *cobra.Command, fc *form.Controller) error {
	values := []struct {
		flag  string
		field form.Field
		value string
	}{
		{"id", form.FieldID, pf.id},
		{"name", form.FieldName, pf.name},
		{"description", form.FieldDescription, pf.description},
		{"logo", form.FieldLogo, pf.logo},
		{"release", form.FieldDateRelease, pf.release},
		// After release, so an explicit revision wins over the derived one.
		{"revision", form.FieldDateRevision, pf.revision},
	}
	for _, v := range values {
		if !cmd.Flags().Changed(v.flag) {
			continue
		}
		if err := fc.SetValue(v.field, v.value); err != nil {
			return err
		}
	}
	return nil
}

func newFormController(e *env) *form.Controller {
	return form.NewController(e.api, e.notes,
		form.WithLogger(e.logger),
		form.WithExistencePolicy(e.cfg.ExistencePolicy),
	)
}

// submitForm optionally runs the interactive form, then submits fc and prints
// the outcome.
func submitForm(cmd *cobra.Command, e *env, fc *form.Controller, interactive bool) error {
	out := cmd.OutOrStdout()
	if interactive {
		err := ui.NewProductForm(cmd.Context(), fc).RunWithContext(cmd.Context())
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, ui.Styles.Muted.Render("Cancelled"))
			return nil
		}
		if err != nil {
			return err
		}
	}

	err := fc.Submit(cmd.Context())
	e.flush(out)
	var invalid *form.InvalidError
	if errors.As(err, &invalid) {
		fmt.Fprintln(out, ui.RenderViolations(invalid.Violations))
	}
	return err
}

func newCreateCommand(e *env) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product; the revision date is derived from the release date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := newFormController(e)
			if err := fc.Init(cmd.Context(), ""); err != nil {
				return err
			}
			if err := pf.apply(cmd, fc); err != nil {
				return err
			}
			return submitForm(cmd, e, fc, pf.interactive)
		},
	}
	pf.register(cmd, true, false)
	return cmd
}

func newEditCommand(e *env) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product; the identifier cannot change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := newFormController(e)
			if err := fc.Init(cmd.Context(), args[0]); err != nil {
				e.flush(cmd.OutOrStdout())
				return err
			}
			if err := pf.apply(cmd, fc); err != nil {
				return err
			}
			if err := submitForm(cmd, e, fc, pf.interactive); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderProduct(fc.Product()))
			return nil
		},
	}
	pf.register(cmd, false, true)
	return cmd
}

func newDeleteCommand(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			lc := list.NewController(e.api, e.notes, e.logger)
			defer lc.Close()
			if err := lc.Load(cmd.Context()); err != nil {
				e.flush(out)
				return err
			}

			target, ok := findProduct(lc.Products(), args[0])
			if !ok {
				return fmt.Errorf("product %s: %w", args[0], client.ErrNotFound)
			}
			if err := lc.RequestDelete(target); err != nil {
				return err
			}

			if !yes {
				confirmed, err := ui.ConfirmDelete(cmd.Context(), target)
				if err != nil {
					lc.CancelDelete()
					return err
				}
				if !confirmed {
					lc.CancelDelete()
					fmt.Fprintln(out, ui.Styles.Muted.Render("Cancelled"))
					return nil
				}
			}

			err := lc.ConfirmDelete(cmd.Context())
			e.flush(out)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func newVerifyCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Check whether a product identifier is already taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := form.NewExistenceChecker(e.api, e.cfg.ExistencePolicy, e.logger)
			status := checker.Check(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderIDStatus(args[0], status))
			if status == form.CheckFailed {
				return fmt.Errorf("verify %s: %w", args[0], client.ErrUnavailable)
			}
			return nil
		},
	}
}
