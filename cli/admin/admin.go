// Package admin binds a collection client, its list store and a form into
// the create, edit and delete flow of the administration screens.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/store"
	"github.com/techcollege/portal/pkg/logger"
)

var (
	// ErrNotConfirmed is returned by Delete when the caller has not confirmed it.
	ErrNotConfirmed = errors.New("deletion was not confirmed")
	// ErrRecordNotFound is returned when an id is absent from the current snapshot.
	ErrRecordNotFound = errors.New("record not found in the current list")
)

// Controller drives one administered collection. Every successful mutation
// is followed by a full reload; the snapshot is never patched locally.
type Controller[R, D any] struct {
	name       string
	collection api.Collection[R, D]
	store      *store.ListStore[R]
	form       *form.Form[R, D]
	schema     form.Schema[R, D]
}

// NewController creates a controller whose store starts in the loading state.
func NewController[R, D any](name string, collection api.Collection[R, D], schema form.Schema[R, D]) *Controller[R, D] {
	return &Controller[R, D]{
		name:       name,
		collection: collection,
		store:      store.New[R](name, collection),
		form:       form.New(schema),
		schema:     schema,
	}
}

// NewCooperationController administers international cooperation agreements.
func NewCooperationController(client *api.Client) *Controller[api.Cooperation, api.CooperationDraft] {
	return NewController[api.Cooperation, api.CooperationDraft](
		"international", api.NewCooperationResource(client), form.CooperationSchema{},
	)
}

// NewAnnouncementController administers schedule announcements.
func NewAnnouncementController(client *api.Client) *Controller[api.Announcement, api.AnnouncementDraft] {
	return NewController[api.Announcement, api.AnnouncementDraft](
		"announcements", api.NewAnnouncementResource(client), form.AnnouncementSchema{},
	)
}

func (c *Controller[R, D]) Name() string {
	return c.name
}

func (c *Controller[R, D]) Store() *store.ListStore[R] {
	return c.store
}

func (c *Controller[R, D]) Form() *form.Form[R, D] {
	return c.form
}

// ID returns the identifier of record.
func (c *Controller[R, D]) ID(record R) string {
	return c.schema.ID(record)
}

// Refresh reloads the collection.
func (c *Controller[R, D]) Refresh(ctx context.Context) error {
	return c.store.Reload(ctx)
}

// Add opens the form in create mode.
func (c *Controller[R, D]) Add() {
	c.form.Open(nil)
}

// Edit opens the form seeded from the record with id.
func (c *Controller[R, D]) Edit(id string) error {
	record, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	c.form.Open(&record)
	return nil
}

// Lookup finds a record by id in the current snapshot.
func (c *Controller[R, D]) Lookup(id string) (R, bool) {
	if id == "" {
		var zero R
		return zero, false
	}
	return c.store.Find(func(r R) bool { return c.schema.ID(r) == id })
}

// SetField edits the open draft.
func (c *Controller[R, D]) SetField(name, value string) error {
	return c.form.SetField(name, value)
}

// Cancel discards the open draft.
func (c *Controller[R, D]) Cancel() {
	c.form.Close()
}

// Save submits the draft and, once the server accepted it, reloads the list.
// A reload failure after a successful save is reported but the saved record
// is still returned.
func (c *Controller[R, D]) Save(ctx context.Context) (R, error) {
	record, err := c.form.Submit(ctx, c.collection)
	if err != nil {
		return record, err
	}
	logger.FromContext(ctx).Info("record saved", "collection", c.name, "id", c.schema.ID(record))
	if err := c.reloadAfterMutation(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// Delete removes the record with id. It refuses to issue the call unless
// confirmed is true. A failed delete leaves the list untouched.
func (c *Controller[R, D]) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	log := logger.FromContext(ctx).With("collection", c.name, "id", id)
	if err := c.collection.Remove(ctx, id); err != nil {
		log.Warn("delete failed", "error", err)
		return err
	}
	log.Info("record deleted")
	return c.reloadAfterMutation(ctx)
}

// Close tears the controller down: the draft is discarded and in-flight
// reload results are dropped.
func (c *Controller[R, D]) Close() {
	c.form.Close()
	c.store.Close()
}

func (c *Controller[R, D]) reloadAfterMutation(ctx context.Context) error {
	err := c.store.Reload(ctx)
	if errors.Is(err, store.ErrStale) {
		return nil
	}
	return err
}
