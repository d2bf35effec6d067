package panel

import (
	"context"

	"github.com/milk9111/votemap/api"
	"github.com/milk9111/votemap/journal"
)

// SwingRequest builds the batch request from the selection and the form,
// rejecting anything that must not reach the server.
func (c *Controller) SwingRequest() (api.SwingRequest, error) {
	ids := c.state.Selection.IDs()
	switch {
	case len(ids) == 0:
		return api.SwingRequest{}, ErrEmptySelection
	case c.swing.PartyID == "":
		return api.SwingRequest{}, ErrNoParty
	case c.swing.Percent == 0:
		return api.SwingRequest{}, ErrZeroSwing
	}
	return api.SwingRequest{
		DistrictIDs: ids,
		PartyID:     c.swing.PartyID,
		Percent:     c.swing.Percent,
		LockTotal:   c.swing.LockTotal,
	}, nil
}

// ApplySwing posts the swing for the whole selection as one request, then
// re-renders without resetting the view.
func (c *Controller) ApplySwing() error {
	if c.busy {
		return ErrBusy
	}
	req, err := c.SwingRequest()
	if err != nil {
		c.alert.Alert(err.Error())
		return err
	}
	c.busy = true
	c.changed()

	c.runner.Go(func(ctx context.Context) error {
		if err := c.server.BatchSwing(ctx, req); err != nil {
			return err
		}
		c.record(ctx, journal.KindSwing, req.DistrictIDs, req)
		return nil
	}, func(err error) {
		c.busy = false
		c.changed()
		if err != nil {
			c.fail("Swing", err)
			return
		}
		if err := c.renderer.Render(true); err != nil {
			c.fail("Refresh", err)
		}
	})
	return nil
}
