package geos

// SRIDPolicy decides the SRID of a geometry derived from a source with the
// given SRID. It is set once per Context and consulted by every copy-producing
// operation.
type SRIDPolicy func(source int) int

// SRIDPolicyZero leaves derived geometries without an SRID.
func SRIDPolicyZero(int) int { return 0 }

// SRIDPolicyKeep copies the source SRID.
func SRIDPolicyKeep(source int) int { return source }

// SRIDPolicyForce always assigns srid.
func SRIDPolicyForce(srid int) SRIDPolicy {
	return func(int) int { return srid }
}
