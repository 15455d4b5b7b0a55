package buildinfo

// Set at build time:
//
//	go build -ldflags "-X github.com/varsilias/portfolio-relay/internal/buildinfo.Version=v1.2.0 ..."
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)
