package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ScheduleService reads group timetables from the schedule endpoint.
type ScheduleService struct {
	client *Client
}

var _ GroupService = (*ScheduleService)(nil)

func NewScheduleService(client *Client) *ScheduleService {
	if client == nil {
		panic("client is required to build the schedule service")
	}
	return &ScheduleService{client: client}
}

// Group fetches one group's timetable. A 404 yields an error matching both
// ErrGroupNotFound and ErrNotFound.
func (s *ScheduleService) Group(ctx context.Context, code string) (*Group, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty group code", ErrGroupNotFound)
	}
	path := PathGroups + "/{" + pathParamCode + "}"
	params := map[string]string{pathParamCode: code}
	resp, err := s.client.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrGroupNotFound, code, err)
		}
		return nil, err
	}
	var group Group
	if err := decodeObject(ctx, resp, http.MethodGet, expandPath(path, params), &group); err != nil {
		return nil, err
	}
	return &group, nil
}
