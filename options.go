package mosaic

import (
	"log/slog"

	"github.com/docmosaic/mosaic/layout"
	"github.com/docmosaic/mosaic/regions"
	"github.com/docmosaic/mosaic/stitch"
	"github.com/docmosaic/mosaic/tables"
)

// Config aggregates the tuning knobs of every pipeline stage. Thresholds
// and tolerances are defaults, not contract: scanned and born-digital
// documents need different values.
type Config struct {
	// Resolver configures region conflict resolution (NMS overlap
	// threshold, containment regime, synthetic clustering).
	Resolver regions.Config

	// Tables configures table grid reconstruction (boundary clustering
	// tolerance).
	Tables tables.Config

	// Layout configures reading-order assembly.
	Layout layout.Config

	// Stitch configures boilerplate removal and table continuation.
	Stitch stitch.Config

	// Workers caps the number of pages processed concurrently.
	// Zero means one worker per CPU.
	Workers int

	// Logger receives debug and degradation output from all stages.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration for every stage.
func DefaultConfig() Config {
	return Config{
		Resolver: regions.DefaultConfig(),
		Tables:   tables.DefaultConfig(),
		Layout:   layout.DefaultConfig(),
		Stitch:   stitch.DefaultConfig(),
	}
}
