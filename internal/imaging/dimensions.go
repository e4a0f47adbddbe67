package imaging

import "math"

// Size is a width/height pair in pixels
type Size struct {
	Width  int
	Height int
}

// commonResolutions is checked before any factor search. Pixel counts in
// this table are unique so every entry can be recovered from its area.
var commonResolutions = []Size{
	{3840, 2160}, {5120, 2880}, {3456, 2234}, {3024, 1964}, {2880, 1800},
	{2560, 1600}, {2560, 1440}, {2560, 1080}, {2048, 1536}, {1920, 1200},
	{1920, 1080}, {1680, 1050}, {1600, 900}, {1440, 900}, {1366, 768},
	{1280, 1024}, {1280, 800}, {1280, 720}, {1024, 768}, {800, 600},
	{640, 480},
	// phones, portrait
	{1170, 2532}, {1179, 2556}, {1284, 2778}, {828, 1792}, {750, 1334},
	{1080, 2340}, {1080, 2400},
}

// resolutionScales are the integer multiples and divisors tried against the
// table once no entry matches exactly, as numerator/denominator pairs.
var resolutionScales = [][2]int{{2, 1}, {3, 1}, {1, 2}, {1, 4}}

// preferredRatios biases the factor search toward standard display shapes
var preferredRatios = []float64{16.0 / 9, 4.0 / 3, 3.0 / 2, 1, 9.0 / 16, 3.0 / 4, 2.0 / 3}

const (
	minAspect          = 0.1
	maxAspect          = 10
	ratioTolerance     = 0.05
	factorMinSide      = 32
	widerSearchMinSide = 10
)

// InferDimensions recovers width and height for a headerless buffer of
// pixelCount pixels. It always returns a size whose area is pixelCount;
// the last resort is a single row.
func InferDimensions(pixelCount int) Size {
	if pixelCount <= 0 {
		return Size{}
	}
	if s, ok := matchCommonResolution(pixelCount); ok {
		return s
	}
	if root := int(math.Sqrt(float64(pixelCount))); root*root == pixelCount {
		return Size{root, root}
	}
	if s, ok := preferredFactorSearch(pixelCount); ok {
		return s
	}
	if s, ok := widerFactorSearch(pixelCount); ok {
		return s
	}
	return Size{pixelCount, 1}
}

func matchCommonResolution(n int) (Size, bool) {
	for _, r := range commonResolutions {
		if r.Width*r.Height == n {
			return r, true
		}
	}
	for _, sc := range resolutionScales {
		for _, r := range commonResolutions {
			if r.Width*sc[0]%sc[1] != 0 || r.Height*sc[0]%sc[1] != 0 {
				continue
			}
			w, h := r.Width*sc[0]/sc[1], r.Height*sc[0]/sc[1]
			if w*h == n {
				return Size{w, h}, true
			}
		}
	}
	return Size{}, false
}

// preferredFactorSearch scans every width whose aspect ratio stays in
// [minAspect, maxAspect] and keeps the factorization closest to a preferred
// ratio, provided it lies within ratioTolerance of one.
func preferredFactorSearch(n int) (Size, bool) {
	lo := int(math.Ceil(math.Sqrt(float64(n) * minAspect)))
	hi := int(math.Floor(math.Sqrt(float64(n) * maxAspect)))

	best, bestScore := Size{}, math.Inf(1)
	for w := max(lo, 1); w <= hi; w++ {
		if n%w != 0 {
			continue
		}
		h := n / w
		if w < factorMinSide || h < factorMinSide {
			continue
		}
		aspect := float64(w) / float64(h)
		if aspect < minAspect || aspect > maxAspect {
			continue
		}
		score := ratioDistance(aspect)
		// ties go to the wider candidate
		if score <= bestScore {
			best, bestScore = Size{w, h}, score
		}
	}
	if bestScore > math.Log(1+ratioTolerance) {
		return Size{}, false
	}
	return best, true
}

func ratioDistance(aspect float64) float64 {
	d := math.Inf(1)
	for _, p := range preferredRatios {
		d = math.Min(d, math.Abs(math.Log(aspect)-math.Log(p)))
	}
	return d
}

// widerFactorSearch accepts any factorization with widths between half and
// twice the square root, choosing the one closest to square.
func widerFactorSearch(n int) (Size, bool) {
	root := math.Sqrt(float64(n))
	lo := max(int(root/2), widerSearchMinSide)
	hi := int(root * 2)

	best, bestScore, found := Size{}, math.Inf(1), false
	for w := lo; w <= hi; w++ {
		if n%w != 0 {
			continue
		}
		h := n / w
		if h < widerSearchMinSide {
			continue
		}
		score := math.Abs(math.Log(float64(w) / float64(h)))
		if score <= bestScore {
			best, bestScore, found = Size{w, h}, score, true
		}
	}
	return best, found
}
