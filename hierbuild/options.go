package hierbuild

import (
	"github.com/klayout-go/netex/localbuild"
	"github.com/rs/zerolog"
)

// Option configures a Builder, following the teacher's functional-
// options idiom (flow.FlowOptions, builder.Options) rather than a
// config struct callers must zero-value correctly.
type Option func(*Options)

// Options holds every configuration knob named by spec.md section 6,
// "Configuration options (enumerated)".
type Options struct {
	ReportProgress    bool
	SeparateAttributes bool
	BreakoutCells     map[int]bool
	// AttributeEquivalence maps a cell index to that cell's partition.
	// Cell index -1 is the reserved "top" entry applied to every cell
	// that has no cell-specific partition of its own.
	AttributeEquivalence map[int]*localbuild.Partition
	AreaRatioSplitThreshold              float64
	InstanceToInstanceCacheSizeThreshold int
	Logger                               zerolog.Logger
}

const topPartitionKey = -1

func defaultOptions() Options {
	return Options{
		BreakoutCells:                         make(map[int]bool),
		AttributeEquivalence:                  make(map[int]*localbuild.Partition),
		AreaRatioSplitThreshold:               10,
		InstanceToInstanceCacheSizeThreshold:  10000,
		Logger:                                zerolog.Nop(),
	}
}

// WithReportProgress enables per-cell progress log lines.
func WithReportProgress(v bool) Option {
	return func(o *Options) { o.ReportProgress = v }
}

// WithSeparateAttributes forwards to every cell's local-clustering pass.
func WithSeparateAttributes(v bool) Option {
	return func(o *Options) { o.SeparateAttributes = v }
}

// WithBreakoutCells marks the given cell indices opaque: no intra-cell
// interaction is considered and the builder never descends into them.
func WithBreakoutCells(cellIndices ...int) Option {
	return func(o *Options) {
		for _, idx := range cellIndices {
			o.BreakoutCells[idx] = true
		}
	}
}

// WithAttributeEquivalence installs part as the attribute-equivalence
// partition for cellIndex's local-clustering pass.
func WithAttributeEquivalence(cellIndex int, part *localbuild.Partition) Option {
	return func(o *Options) { o.AttributeEquivalence[cellIndex] = part }
}

// WithTopAttributeEquivalence installs part as the fallback partition
// applied to any cell without its own cell-specific entry.
func WithTopAttributeEquivalence(part *localbuild.Partition) Option {
	return func(o *Options) { o.AttributeEquivalence[topPartitionKey] = part }
}

// WithAreaRatioSplitThreshold sets Options.AreaRatioSplitThreshold, the
// bbox-to-shape-area ratio for pre-splitting a local cluster before the
// local-to-instance scan (spec.md section 4.3 step C). The builder
// stores the value but performs no pre-split, so it affects neither
// performance nor the resulting partition.
func WithAreaRatioSplitThreshold(v float64) Option {
	return func(o *Options) { o.AreaRatioSplitThreshold = v }
}

// WithInstanceCacheSizeThreshold overrides the cluster-pair count past
// which an instance-to-instance cache entry is dropped rather than
// stored, to bound memory on degenerate many-to-many layouts.
func WithInstanceCacheSizeThreshold(n int) Option {
	return func(o *Options) { o.InstanceToInstanceCacheSizeThreshold = n }
}

// WithLogger installs a custom zerolog.Logger. The default is
// zerolog.Nop(), matching the teacher's library-not-framework stance:
// a silent logger until the caller opts in.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func (o Options) partitionFor(cellIndex int) *localbuild.Partition {
	if p, ok := o.AttributeEquivalence[cellIndex]; ok {
		return p
	}
	return o.AttributeEquivalence[topPartitionKey]
}
