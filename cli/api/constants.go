package api

// Collection paths, relative to the configured base URL
const (
	PathInternational = "/international"
	PathAnnouncements = "/schedule/announcements"
	PathGroups        = "/schedule/groups"
)

// HeaderRequestID carries a per-request UUID used to correlate client and server logs.
const HeaderRequestID = "X-Request-ID"

const (
	contentTypeJSON = "application/json"
	pathParamID     = "id"
	pathParamCode   = "code"
)
