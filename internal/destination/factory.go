package destination

import (
	"fmt"

	"histrestore/internal/config"
	"histrestore/internal/hr"
)

// NewDestinationFromConfig creates a Destination implementation based on the
// destination config type. outputDir is the root for filesystem destinations.
func NewDestinationFromConfig(cfg config.DestinationConfig, outputDir string) (hr.Destination, error) {
	switch cfg.Type {
	case "filesystem", "":
		if outputDir == "" {
			return nil, fmt.Errorf("filesystem destination requires an output directory")
		}
		return NewFileSystemDestination(outputDir), nil
	case "memory":
		return NewMemoryDestination("restore"), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 destination requires s3_bucket to be set")
		}
		return NewS3Destination(cfg)
	default:
		return nil, fmt.Errorf("unknown destination type: %s", cfg.Type)
	}
}
