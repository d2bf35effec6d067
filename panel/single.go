package panel

import (
	"context"
	"log"

	"github.com/milk9111/votemap/api"
	"github.com/milk9111/votemap/journal"
	"github.com/milk9111/votemap/ledger"
)

// OpenSingle switches to the single-district editor and loads id.
func (c *Controller) OpenSingle(id string) {
	c.mode = Single
	c.state.Editing = id
	c.ledger = nil
	c.loading = true
	c.title = "Loading…"
	c.changed()

	var d api.District
	c.runner.Go(func(ctx context.Context) error {
		var err error
		d, err = c.server.District(ctx, id)
		return err
	}, func(err error) {
		if c.mode != Single || c.state.Editing != id {
			return
		}
		c.loading = false
		if err != nil {
			log.Printf("load district %s: %v", id, err)
			c.title = "Load error"
			c.changed()
			return
		}
		c.loaded(d)
	})
}

func (c *Controller) loaded(d api.District) {
	entries := make([]ledger.Entry, 0, len(d.Votes))
	for _, v := range d.Votes {
		entries = append(entries, ledger.Entry{PartyID: v.ID, Name: v.Name, Count: v.Count})
		c.state.Catalog.Add(v.ID, v.Name)
	}
	c.ledger = ledger.New(entries, true)
	c.seats = d.Seats
	c.title = "Edit: " + d.ID
	c.changed()
}

// Save sends the ledger and seat count for the open district, then
// re-renders without resetting the view. The panel stays open.
func (c *Controller) Save() error {
	if c.mode != Single || c.ledger == nil {
		return ErrNotEditing
	}
	if c.busy {
		return ErrBusy
	}
	req := api.UpdateRequest{
		DistrictID: c.state.Editing,
		Seats:      c.seats,
		Votes:      c.ledger.Votes(),
	}
	c.busy = true
	c.changed()

	c.runner.Go(func(ctx context.Context) error {
		if err := c.server.UpdateDistrict(ctx, req); err != nil {
			return err
		}
		c.record(ctx, journal.KindUpdate, []string{req.DistrictID}, req)
		return nil
	}, func(err error) {
		c.busy = false
		c.changed()
		if err != nil {
			c.fail("Save", err)
			return
		}
		if err := c.renderer.Render(true); err != nil {
			c.fail("Refresh", err)
		}
	})
	return nil
}

// record runs inside the work goroutine; a journal failure never fails the
// edit itself.
func (c *Controller) record(ctx context.Context, kind journal.Kind, ids []string, payload any) {
	if c.journal == nil {
		return
	}
	if _, err := c.journal.Record(ctx, kind, ids, payload); err != nil {
		log.Printf("journal %s: %v", kind, err)
	}
}
