package version

// Set at build time:
//
//	-X 'github.com/techcollege/portal/pkg/version.Version=v1.2.0'
//	-X 'github.com/techcollege/portal/pkg/version.CommitHash=abc123'
//	-X 'github.com/techcollege/portal/pkg/version.BuildDate=2026-09-01T00:00:00Z'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build information printed by `portalctl version`.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// UserAgent is the default User-Agent sent to the portal API.
func UserAgent() string {
	return "portalctl/" + Version
}
