package list

import (
	"context"
	"fmt"

	"productdesk/internal/client"
	"productdesk/internal/models"
	"productdesk/internal/notify"
)

// DeleteState is the delete confirmation state.
type DeleteState int

const (
	// DeleteIdle means no delete is pending.
	DeleteIdle DeleteState = iota
	// DeleteConfirmPending means a product is selected and awaits confirmation.
	DeleteConfirmPending
	// DeleteInFlight means the delete call is running.
	DeleteInFlight
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "IDLE"
	case DeleteConfirmPending:
		return "CONFIRM_PENDING"
	case DeleteInFlight:
		return "IN_FLIGHT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// DeleteState returns the current delete state.
func (c *Controller) DeleteState() DeleteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteState
}

// DeleteTarget returns the product awaiting confirmation, if any.
func (c *Controller) DeleteTarget() (models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteTarget == nil {
		return models.Product{}, false
	}
	return *c.deleteTarget, true
}

// RequestDelete selects p for deletion and waits for confirmation. Selecting
// another product while one is pending replaces it.
func (c *Controller) RequestDelete(p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteState == DeleteInFlight {
		return ErrDeleteInFlight
	}
	c.deleteTarget = &p
	c.deleteState = DeleteConfirmPending
	return nil
}

// CancelDelete drops a pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteState == DeleteConfirmPending {
		c.deleteState = DeleteIdle
		c.deleteTarget = nil
	}
}

// ConfirmDelete deletes the selected product and reloads the list on success.
// With nothing selected it does nothing. A confirm while a delete is running
// returns ErrDeleteInFlight. The selection is cleared before the call returns,
// whatever its outcome.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.deleteState == DeleteInFlight:
		c.mu.Unlock()
		return ErrDeleteInFlight
	case c.deleteTarget == nil:
		c.deleteState = DeleteIdle
		c.mu.Unlock()
		return nil
	}
	target := *c.deleteTarget
	c.deleteTarget = nil
	c.deleteState = DeleteInFlight
	c.mu.Unlock()

	resp, err := c.api.DeleteProduct(ctx, target.ID)

	c.mu.Lock()
	c.deleteState = DeleteIdle
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("deleting product failed", "id", target.ID, "error", err)
		notify.Error(c.notifier, "Error", client.MessageOf(err, "Could not delete the product"))
		return fmt.Errorf("delete product %s: %w", target.ID, err)
	}

	message := "Product deleted successfully"
	if resp != nil && resp.Message != "" {
		message = resp.Message
	}
	notify.Success(c.notifier, "Success", message)
	return c.Load(ctx)
}
