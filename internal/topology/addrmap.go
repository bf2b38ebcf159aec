package topology

import "math/bits"

// DefaultAddrWidth is used for masks when no port declares an address width.
const DefaultAddrWidth = 32

// AddressScheme is the way an interconnect definition receives its address
// map.
type AddressScheme int

const (
	SchemeNone AddressScheme = iota
	// SchemeMemMap is a flat list of (base, end) pairs, endpoint order.
	SchemeMemMap
	// SchemeSlaveMask is a pair of base and mask lists, reversed endpoint
	// order.
	SchemeSlaveMask
)

func (s AddressScheme) String() string {
	switch s {
	case SchemeMemMap:
		return "mem_map"
	case SchemeSlaveMask:
		return "slave_mask"
	default:
		return "none"
	}
}

// AddressRegion is the address window of one endpoint.
type AddressRegion struct {
	Port *InterfacePort
	Base uint64
	Size uint64
}

// maxPow2 is the largest power of two a uint64 holds.
const maxPow2 = 1 << 63

// RoundUpPow2 returns the smallest power of two not less than n. Zero and one
// round to one; values above 1<<63 saturate to 1<<63.
func RoundUpPow2(n uint64) uint64 {
	switch {
	case n <= 1:
		return 1
	case n > maxPow2:
		return maxPow2
	}
	return 1 << bits.Len64(n-1)
}

// FillLeft sets the bits of a width-bit word from the top down to, but
// excluding, the most significant set bit of n, then ORs in n. If n has no
// set bit below width the result is all ones.
func FillLeft(n uint64, width uint) uint64 {
	var ret uint64
	for i := int(width) - 1; i >= 0; i-- {
		if n&(1<<uint(i)) != 0 {
			return ret | n
		}
		ret |= 1 << uint(i)
	}
	return ret
}

// MaskFor returns the address-decode mask of a region of the given size.
func MaskFor(size uint64, width uint) uint64 {
	if width == 0 {
		width = DefaultAddrWidth
	}
	return FillLeft(RoundUpPow2(size), width)
}

// MemMap flattens regions into base, end pairs in order. The end address is
// exclusive.
func MemMap(regions []AddressRegion) []uint64 {
	out := make([]uint64, 0, 2*len(regions))
	for _, r := range regions {
		out = append(out, r.Base, r.Base+r.Size)
	}
	return out
}

// SlaveAddrMask returns the base and mask lists in reverse region order.
func SlaveAddrMask(regions []AddressRegion, width uint) (addrs, masks []uint64) {
	addrs = make([]uint64, 0, len(regions))
	masks = make([]uint64, 0, len(regions))
	for i := len(regions) - 1; i >= 0; i-- {
		addrs = append(addrs, regions[i].Base)
		masks = append(masks, MaskFor(regions[i].Size, width))
	}
	return addrs, masks
}
