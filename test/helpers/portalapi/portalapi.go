// Package portalapi runs an in-memory portal REST API for tests.
package portalapi

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/pkg/config"
)

type Option func(*Harness)

// WithCooperations seeds the international collection.
func WithCooperations(records ...api.Cooperation) Option {
	return func(h *Harness) {
		h.cooperations = append(h.cooperations, records...)
	}
}

// WithAnnouncements seeds the announcements collection.
func WithAnnouncements(records ...api.Announcement) Option {
	return func(h *Harness) {
		h.announcements = append(h.announcements, records...)
	}
}

// WithGroup registers a group timetable under its name.
func WithGroup(group api.Group) Option {
	return func(h *Harness) {
		h.groups[group.Name] = group
	}
}

// WithToken makes every route require "Authorization: Bearer token".
func WithToken(token string) Option {
	return func(h *Harness) {
		h.token = token
	}
}

type failure struct {
	status int
	body   string
}

// Harness is a running fake API. Cooperations are served sorted by order;
// announcements in insertion order.
type Harness struct {
	Engine  *gin.Engine
	Server  *httptest.Server
	BaseURL string

	mu            sync.Mutex
	cooperations  []api.Cooperation
	announcements []api.Announcement
	groups        map[string]api.Group
	failures      map[string]failure
	hits          map[string]int
	requestIDs    []string
	token         string
	now           func() time.Time
}

// New starts a fake API that is shut down when the test ends.
func New(t *testing.T, opts ...Option) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &Harness{
		groups:   make(map[string]api.Group),
		failures: make(map[string]failure),
		hits:     make(map[string]int),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	r := gin.New()
	r.Use(gin.Recovery(), h.track, h.auth, h.inject)
	group := r.Group("/api")
	group.GET("/international", h.listCooperations)
	group.POST("/international", h.createCooperation)
	group.PUT("/international/:id", h.updateCooperation)
	group.DELETE("/international/:id", h.deleteCooperation)
	group.GET("/schedule/announcements", h.listAnnouncements)
	group.POST("/schedule/announcements", h.createAnnouncement)
	group.PUT("/schedule/announcements/:id", h.updateAnnouncement)
	group.DELETE("/schedule/announcements/:id", h.deleteAnnouncement)
	group.GET("/schedule/groups/:code", h.getGroup)
	h.Engine = r
	h.Server = httptest.NewServer(r)
	h.BaseURL = h.Server.URL + "/api"
	t.Cleanup(h.Server.Close)
	return h
}

// Config returns client defaults pointed at this server.
func (h *Harness) Config() *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = h.BaseURL
	cfg.API.Timeout = 5 * time.Second
	return cfg
}

// Client builds an API client for this server.
func (h *Harness) Client(t *testing.T) *api.Client {
	t.Helper()
	client, err := api.NewClient(h.Config())
	require.NoError(t, err)
	return client
}

// Fail makes every request matching method and route (for example
// "DELETE /api/international/:id") answer with status until Recover is called.
func (h *Harness) Fail(method, route string, status int, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[method+" "+route] = failure{status: status, body: body}
}

// Recover removes every injected failure.
func (h *Harness) Recover() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = make(map[string]failure)
}

// Hits counts requests received for method and route.
func (h *Harness) Hits(method, route string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[method+" "+route]
}

// TotalHits counts every request received.
func (h *Harness) TotalHits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, n := range h.hits {
		total += n
	}
	return total
}

// RequestIDs returns the X-Request-ID values seen so far.
func (h *Harness) RequestIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.requestIDs)
}

// Cooperations returns the stored agreements in served order.
func (h *Harness) Cooperations() []api.Cooperation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sortedCooperations()
}

// Announcements returns the stored announcements.
func (h *Harness) Announcements() []api.Announcement {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.announcements)
}

// SetClock fixes the date assigned to new announcements.
func (h *Harness) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

func (h *Harness) track(c *gin.Context) {
	h.mu.Lock()
	h.hits[c.Request.Method+" "+c.FullPath()]++
	if id := c.GetHeader(api.HeaderRequestID); id != "" {
		h.requestIDs = append(h.requestIDs, id)
	}
	h.mu.Unlock()
	c.Next()
}

func (h *Harness) auth(c *gin.Context) {
	if h.token != "" && c.GetHeader("Authorization") != "Bearer "+h.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (h *Harness) inject(c *gin.Context) {
	h.mu.Lock()
	f, ok := h.failures[c.Request.Method+" "+c.FullPath()]
	h.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	c.Abort()
	c.Data(f.status, "application/json", []byte(f.body))
}

func (h *Harness) sortedCooperations() []api.Cooperation {
	out := slices.Clone(h.cooperations)
	slices.SortStableFunc(out, func(a, b api.Cooperation) int {
		return a.Order - b.Order
	})
	return out
}

// normalizeOrder clamps order into [1, n].
func normalizeOrder(order, n int) int {
	if order < 1 {
		return 1
	}
	if order > n {
		return n
	}
	return order
}

func missingFields(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}

func (h *Harness) listCooperations(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.sortedCooperations())
}

func (h *Harness) createCooperation(c *gin.Context) {
	var draft api.CooperationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	if missing := missingFields("stateName", draft.StateName, "orgName", draft.OrgName, "dogReg", draft.DogReg); len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing", "details": strings.Join(missing, ", ")})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	record := api.Cooperation{
		ID:        uuid.NewString(),
		StateName: draft.StateName,
		OrgName:   draft.OrgName,
		DogReg:    draft.DogReg,
		Order:     normalizeOrder(draft.Order, len(h.cooperations)+1),
		IsActive:  draft.IsActive,
	}
	h.cooperations = append(h.cooperations, record)
	c.JSON(http.StatusCreated, record)
}

func (h *Harness) updateCooperation(c *gin.Context) {
	var draft api.CooperationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	if missing := missingFields("stateName", draft.StateName, "orgName", draft.OrgName, "dogReg", draft.DogReg); len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing", "details": strings.Join(missing, ", ")})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := slices.IndexFunc(h.cooperations, func(r api.Cooperation) bool { return r.ID == c.Param("id") })
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	record := api.Cooperation{
		ID:        h.cooperations[idx].ID,
		StateName: draft.StateName,
		OrgName:   draft.OrgName,
		DogReg:    draft.DogReg,
		Order:     normalizeOrder(draft.Order, len(h.cooperations)),
		IsActive:  draft.IsActive,
	}
	h.cooperations[idx] = record
	c.JSON(http.StatusOK, record)
}

func (h *Harness) deleteCooperation(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := slices.IndexFunc(h.cooperations, func(r api.Cooperation) bool { return r.ID == c.Param("id") })
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	h.cooperations = slices.Delete(h.cooperations, idx, idx+1)
	c.Status(http.StatusNoContent)
}

func (h *Harness) listAnnouncements(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.announcements
	if out == nil {
		out = []api.Announcement{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Harness) createAnnouncement(c *gin.Context) {
	var draft api.AnnouncementDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	if missing := missingFields("title", draft.Title, "content", draft.Content); len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing", "details": strings.Join(missing, ", ")})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	record := api.Announcement{
		ID:      uuid.NewString(),
		Title:   draft.Title,
		Content: draft.Content,
		Urgent:  draft.Urgent,
		Date:    draft.Date,
	}
	if record.Date == "" {
		record.Date = h.now().Format(time.DateOnly)
	}
	h.announcements = append(h.announcements, record)
	c.JSON(http.StatusCreated, record)
}

func (h *Harness) updateAnnouncement(c *gin.Context) {
	var draft api.AnnouncementDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := slices.IndexFunc(h.announcements, func(r api.Announcement) bool { return r.ID == c.Param("id") })
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	record := h.announcements[idx]
	record.Title, record.Content, record.Urgent, record.Date = draft.Title, draft.Content, draft.Urgent, draft.Date
	h.announcements[idx] = record
	c.JSON(http.StatusOK, record)
}

func (h *Harness) deleteAnnouncement(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := slices.IndexFunc(h.announcements, func(r api.Announcement) bool { return r.ID == c.Param("id") })
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	h.announcements = slices.Delete(h.announcements, idx, idx+1)
	c.Status(http.StatusNoContent)
}

func (h *Harness) getGroup(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[c.Param("code")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}
