package graph

import "github.com/tracekit/ctf/obj"

// SupportedMIPVersion is the only Message Interchange Protocol version this
// implementation speaks, mirroring original_source's "MIP version 0 is the
// only version currently supported by the library itself".
const SupportedMIPVersion uint64 = 0

// GetSupportedMIPVersionsFunc is a component class's optional method for
// advertising which MIP versions it can operate under. Classes that don't
// implement it are assumed to support version 0 only, per
// original_source/src/lib/graph/mip.c's validate_operative_mip_version_in_array.
type GetSupportedMIPVersionsFunc func(params interface{}) (*obj.IntervalSet[uint64], error)

// Descriptor is the minimal piece of a component descriptor this package's
// MIP negotiation needs: a name (for error reporting) and the optional
// supported-versions method.
type Descriptor struct {
	Name                     string
	GetSupportedMIPVersions GetSupportedMIPVersionsFunc
	Params                  interface{}
}

// GreatestOperativeMIPVersion finds the greatest MIP version every
// descriptor in the set supports. As of this implementation (mirroring the
// original library exactly) only version 0 is ever supported, so this
// either returns 0 or a StatusNoMatch error naming the first descriptor
// that doesn't support it.
//
// Grounded directly on bt_get_greatest_operative_mip_version /
// validate_operative_mip_version_in_array in
// original_source/src/lib/graph/mip.c, re-expressed over
// obj.IntervalSet[uint64] instead of a GPtrArray of ranges, using
// obj.GreatestContained to search the descriptor set for the highest
// commonly supported version.
func GreatestOperativeMIPVersion(descriptors []Descriptor) (uint64, error) {
	if len(descriptors) == 0 {
		return 0, NewStatusError(StatusError, "component descriptor set is empty")
	}

	sets := make([]*obj.IntervalSet[uint64], 0, len(descriptors))
	for _, d := range descriptors {
		if d.GetSupportedMIPVersions == nil {
			rs := obj.NewIntervalSet[uint64]()
			if err := rs.AddRange(0, 0); err != nil {
				return 0, NewStatusError(StatusMemoryError, err.Error())
			}
			sets = append(sets, rs)
			continue
		}

		rs, err := d.GetSupportedMIPVersions(d.Params)
		if err != nil {
			return 0, NewStatusError(StatusError, "component class \""+d.Name+"\"'s get-supported-mip-versions method failed: "+err.Error())
		}
		if rs == nil || rs.Len() == 0 {
			return 0, NewStatusError(StatusError, "component class \""+d.Name+"\" returned no supported MIP versions")
		}
		sets = append(sets, rs)
	}

	version, ok := obj.GreatestContained(sets, SupportedMIPVersion)
	if !ok {
		for i, rs := range sets {
			if !rs.Contains(SupportedMIPVersion) {
				return 0, NewStatusError(StatusNoMatch, "component class \""+descriptors[i].Name+"\" does not support MIP version 0")
			}
		}
		return 0, NewStatusError(StatusNoMatch, "no MIP version supported by every component descriptor")
	}
	return version, nil
}
