package vmspace

import "github.com/oichkatzele/minikernel/internal/addr"

// VPNRange is a half-open range of virtual page numbers: [Start, End).
type VPNRange struct {
	Start addr.VirtPageNum
	End   addr.VirtPageNum
}

// VPNRangeFromStartEnd builds the range [start, end).
func VPNRangeFromStartEnd(start, end addr.VirtPageNum) VPNRange {
	return VPNRange{Start: start, End: end}
}

// VPNRangeFromStartCount builds the range [start, start+count).
func VPNRangeFromStartCount(start addr.VirtPageNum, count uint64) VPNRange {
	return VPNRange{Start: start, End: start.Add(count)}
}

// VPNRangeSingle builds the single-page range [vpn, vpn+1).
func VPNRangeSingle(vpn addr.VirtPageNum) VPNRange {
	return VPNRangeFromStartCount(vpn, 1)
}

// Len reports the number of pages in the range.
func (r VPNRange) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return uint64(r.End - r.Start)
}

// Contains reports whether vpn falls within the range.
func (r VPNRange) Contains(vpn addr.VirtPageNum) bool {
	return vpn >= r.Start && vpn < r.End
}

// Overlaps reports whether r and other share any page.
func (r VPNRange) Overlaps(other VPNRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Iter returns every page number in the range, in ascending order.
func (r VPNRange) Iter() []addr.VirtPageNum {
	out := make([]addr.VirtPageNum, 0, r.Len())
	for vpn := r.Start; vpn < r.End; vpn++ {
		out = append(out, vpn)
	}
	return out
}
