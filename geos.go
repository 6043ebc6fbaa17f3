// Package geos provides owned geometry handles over a planar geometry engine.
// It exposes line and polygon handles with point-level accessors, coordinate
// sequences with grid snapping and affine transforms, and a WKB writer with
// persistent configuration and per-call overrides.
//
// Geometries live in a Context's arena and are addressed by handles. Handles
// derived from a polygon's rings are views: they never release the storage
// they read from, and they keep their parent reachable for as long as they are.
package geos

import (
	"github.com/cockroachdb/errors"
)

// Error kinds returned by this package. Use errors.Is to match them; most
// call sites wrap them with additional context.
var (
	ErrIndexOutOfBounds = errors.New("geos: index out of bounds")
	ErrInvalidGeometry  = errors.New("geos: invalid geometry")
	ErrValidation       = errors.New("geos: invalid value")
	ErrEngine           = errors.New("geos: engine failure")
	ErrUnsupported      = errors.New("geos: operation not supported by engine")
	ErrReadOnlyView     = errors.New("geos: cannot mutate a view geometry")
	ErrHandleInUse      = errors.New("geos: geometry has live views")
	ErrNilGeometry      = errors.New("geos: nil geometry")
	ErrUnexpectedType   = errors.New("geos: unexpected geometry type")
)

// Feature is an optional engine capability.
type Feature uint8

const (
	// FeatureNumPoints is the exact point-count fast path. Without it the
	// count is derived from the coordinate sequence length.
	FeatureNumPoints Feature = iota
	// FeatureIsClosed is the native closed-line check.
	FeatureIsClosed
	// FeatureOffsetCurve is parallel offset curve construction.
	FeatureOffsetCurve

	numFeatures
)

var featureNames = [...]string{
	FeatureNumPoints:   "NumPoints",
	FeatureIsClosed:    "IsClosed",
	FeatureOffsetCurve: "OffsetCurve",
}

// String returns the feature's name.
func (f Feature) String() string {
	if f < numFeatures {
		return featureNames[f]
	}
	return "Unknown"
}

// Features is a set of engine capabilities.
type Features uint32

// AllFeatures enables every capability the engine exposes.
const AllFeatures Features = 1<<numFeatures - 1

// FeatureSet builds a Features value from individual capabilities.
func FeatureSet(fs ...Feature) Features {
	var s Features
	for _, f := range fs {
		s |= 1 << f
	}
	return s
}

// Has reports whether f is in the set.
func (s Features) Has(f Feature) bool {
	return s&(1<<f) != 0
}

// Without returns s with the given capabilities removed.
func (s Features) Without(fs ...Feature) Features {
	return s &^ FeatureSet(fs...)
}

// Options configures a Context.
type Options struct {
	SRIDPolicy   SRIDPolicy   // SRID assigned to derived geometries (default: SRIDPolicyZero)
	Features     Features     // Capabilities to expose (default: AllFeatures)
	BufferParams BufferParams // Defaults merged under OffsetCurve options
}

// DefaultOptions returns the default Context options.
func DefaultOptions() *Options {
	return &Options{
		SRIDPolicy:   SRIDPolicyZero,
		Features:     AllFeatures,
		BufferParams: DefaultBufferParams(),
	}
}
