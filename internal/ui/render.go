package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"productdesk/internal/form"
	"productdesk/internal/list"
	"productdesk/internal/models"
	"productdesk/internal/notify"
	"productdesk/internal/validation"
)

const (
	iconSuccess = "✓"
	iconWarning = "⚠"
	iconError   = "✗"
)

// RenderNotification draws n in a box colored by its kind.
func RenderNotification(n notify.Notification) string {
	box, text, icon := Styles.SuccessBox, Styles.Success, iconSuccess
	switch n.Kind {
	case notify.KindWarning:
		box, text, icon = Styles.WarningBox, Styles.Warning, iconWarning
	case notify.KindError:
		box, text, icon = Styles.ErrorBox, Styles.Error, iconError
	}
	title := text.Bold(true).Render(icon + " " + n.Title)
	return box.Render(title + "\n" + n.Message)
}

// FlushNotification prints the latest notification of ch, if any, and
// dismisses it.
func FlushNotification(w io.Writer, ch *notify.Channel) bool {
	n, ok := ch.Latest()
	if !ok {
		return false
	}
	fmt.Fprintln(w, RenderNotification(n))
	ch.Dismiss()
	return true
}

// RenderProducts draws the product table. The logo column shows the name
// initials.
func RenderProducts(products []models.Product) string {
	if len(products) == 0 {
		return Styles.Muted.Render("No products found")
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			list.Initials(p.Name),
			p.ID,
			p.Name,
			p.Description,
			list.FormatDate(p.DateRelease),
			list.FormatDate(p.DateRevision),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Table).
		Headers("Logo", "ID", "Name", "Description", "Release", "Revision").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			if col == 0 {
				return Styles.Badge
			}
			return Styles.Cell
		})
	return t.String()
}

// RenderPager summarises the list position, e.g. "2 results · page 1 of 1".
func RenderPager(c *list.Controller) string {
	total := c.TotalPages()
	if total == 0 {
		total = 1
	}
	results := len(c.Filtered())
	noun := "results"
	if results == 1 {
		noun = "result"
	}
	return Styles.Muted.Render(fmt.Sprintf("%d %s · page %d of %d · %d per page",
		results, noun, c.CurrentPage(), total, c.PageSize()))
}

// RenderProduct draws a single product as a label/value block.
func RenderProduct(p models.Product) string {
	lines := []string{
		Styles.Badge.Render(list.Initials(p.Name)) + " " + Styles.Title.Render(p.Name),
		"",
		Styles.Label.Render("ID") + p.ID,
		Styles.Label.Render("Description") + p.Description,
		Styles.Label.Render("Logo") + p.Logo,
		Styles.Label.Render("Release") + list.FormatDate(p.DateRelease),
		Styles.Label.Render("Revision") + list.FormatDate(p.DateRevision),
	}
	return strings.Join(lines, "\n")
}

// RenderViolations lists violation messages in field order.
func RenderViolations(vs validation.Violations) string {
	msgs := vs.Messages()
	for i, m := range msgs {
		msgs[i] = Styles.Error.Render(iconError + " " + m)
	}
	return strings.Join(msgs, "\n")
}

// RenderIDStatus describes an identifier check outcome.
func RenderIDStatus(id string, status form.Existence) string {
	switch status {
	case form.Exists:
		return Styles.Error.Render(fmt.Sprintf("%s %s is already in use", iconError, id))
	case form.Available:
		return Styles.Success.Render(fmt.Sprintf("%s %s is available", iconSuccess, id))
	case form.CheckFailed:
		return Styles.Warning.Render(fmt.Sprintf("%s %s could not be verified", iconWarning, id))
	default:
		return Styles.Muted.Render(fmt.Sprintf("%s was not checked", id))
	}
}
