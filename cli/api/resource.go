package api

import (
	"context"
	"net/http"
	"strings"
)

// Resource is a typed client for one collection endpoint, where R is the
// persisted record and D the draft sent on create and update.
type Resource[R, D any] struct {
	client *Client
	path   string
}

var _ Collection[Cooperation, CooperationDraft] = (*Resource[Cooperation, CooperationDraft])(nil)

// NewResource binds a collection path to client.
func NewResource[R, D any](client *Client, path string) *Resource[R, D] {
	if client == nil {
		panic("client is required to build a resource")
	}
	return &Resource[R, D]{client: client, path: "/" + strings.Trim(path, "/")}
}

// NewCooperationResource returns the international cooperation collection.
func NewCooperationResource(client *Client) *Resource[Cooperation, CooperationDraft] {
	return NewResource[Cooperation, CooperationDraft](client, PathInternational)
}

// NewAnnouncementResource returns the announcements collection.
func NewAnnouncementResource(client *Client) *Resource[Announcement, AnnouncementDraft] {
	return NewResource[Announcement, AnnouncementDraft](client, PathAnnouncements)
}

// Path returns the collection path relative to the base URL.
func (r *Resource[R, D]) Path() string {
	return r.path
}

func (r *Resource[R, D]) itemPath() string {
	return r.path + "/{" + pathParamID + "}"
}

// List fetches the whole collection in server order.
func (r *Resource[R, D]) List(ctx context.Context) ([]R, error) {
	resp, err := r.client.do(ctx, http.MethodGet, r.path, nil, nil)
	if err != nil {
		return nil, err
	}
	records := make([]R, 0)
	if err := decodeArray(ctx, resp, http.MethodGet, r.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create posts draft and returns the persisted record.
func (r *Resource[R, D]) Create(ctx context.Context, draft D) (R, error) {
	var record R
	resp, err := r.client.do(ctx, http.MethodPost, r.path, nil, draft)
	if err != nil {
		return record, err
	}
	if err := decodeObject(ctx, resp, http.MethodPost, r.path, &record); err != nil {
		return record, err
	}
	return record, nil
}

// Update replaces the record identified by id with draft.
func (r *Resource[R, D]) Update(ctx context.Context, id string, draft D) (R, error) {
	var record R
	if strings.TrimSpace(id) == "" {
		return record, ErrMissingID
	}
	params := map[string]string{pathParamID: id}
	resp, err := r.client.do(ctx, http.MethodPut, r.itemPath(), params, draft)
	if err != nil {
		return record, err
	}
	if err := decodeObject(ctx, resp, http.MethodPut, expandPath(r.itemPath(), params), &record); err != nil {
		return record, err
	}
	return record, nil
}

// Remove deletes the record identified by id. Any 2xx status is success and
// the response body is ignored.
func (r *Resource[R, D]) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(), map[string]string{pathParamID: id}, nil)
	return err
}
