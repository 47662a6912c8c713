package common

var (
	// Version is overridden at build time via -ldflags.
	Version = "dev"

	// PackageName is used as the namespace for metrics.
	PackageName = "ccip_gateway"
)
