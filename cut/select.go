package cut

// quickSelect returns the element that would sit at index k (0-based)
// if data were sorted ascending, using Hoare-style partial selection
// rather than a full sort: bins can be large and only one rank is
// needed. data is reordered in place.
func quickSelect(data []float64, k int) float64 {
	lo, hi := 0, len(data)-1

	for lo < hi {
		p := partition(data, lo, hi)

		switch {
		case k == p:
			return data[k]
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}

	return data[k]
}

// partition arranges data[lo:hi+1] around a median-of-three pivot and
// returns the pivot's final index.
func partition(data []float64, lo, hi int) int {
	mid := lo + (hi-lo)/2

	if data[mid] < data[lo] {
		data[lo], data[mid] = data[mid], data[lo]
	}

	if data[hi] < data[lo] {
		data[lo], data[hi] = data[hi], data[lo]
	}

	if data[hi] < data[mid] {
		data[mid], data[hi] = data[hi], data[mid]
	}

	data[mid], data[hi] = data[hi], data[mid]
	pivot := data[hi]

	i := lo
	for j := lo; j < hi; j++ {
		if data[j] < pivot {
			data[i], data[j] = data[j], data[i]
			i++
		}
	}

	data[i], data[hi] = data[hi], data[i]

	return i
}
