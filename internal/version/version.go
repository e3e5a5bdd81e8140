package version

// Version is overridden at build time:
//
//	go build -ldflags "-X loghealth/internal/version.Version=v1.2.3"
var Version = "dev"
