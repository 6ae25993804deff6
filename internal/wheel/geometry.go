package wheel

import (
	"fmt"
	"math"
)

// Angles are in degrees, 0 at the pointer (12 o'clock), increasing clockwise.

// SegmentAngle is the angular width of one of n equal segments
func SegmentAngle(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 360 / float64(n)
}

// SegmentStart is the angle where segment i begins
func SegmentStart(i, n int) float64 {
	return float64(i) * SegmentAngle(n)
}

// SegmentCenter is the angle bisecting segment i
func SegmentCenter(i, n int) float64 {
	return SegmentStart(i, n) + SegmentAngle(n)/2
}

// TargetRotation returns the absolute wheel rotation that brings the center of
// segment index under the pointer after turns extra full revolutions.
// The result is always strictly greater than prior.
func TargetRotation(prior float64, index, n, turns int) float64 {
	if turns < 1 {
		turns = 1
	}
	base := math.Floor(prior/360) * 360
	return base + float64(turns)*360 + (360 - SegmentCenter(index, n))
}

// IndexAt returns the segment under the pointer for a wheel rotated by rotation.
func IndexAt(rotation float64, n int) int {
	if n <= 0 {
		return -1
	}
	a := math.Mod(360-math.Mod(rotation, 360), 360)
	i := int(a / SegmentAngle(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// SegmentPath returns the SVG path of segment i drawn on a circle of radius r
// centered at (cx, cy).
func SegmentPath(i, n int, cx, cy, r float64) string {
	if n == 1 {
		return fmt.Sprintf("M %.3f %.3f A %.3f %.3f 0 1 1 %.3f %.3f A %.3f %.3f 0 1 1 %.3f %.3f Z",
			cx, cy-r, r, r, cx, cy+r, r, r, cx, cy-r)
	}
	start := SegmentStart(i, n)
	end := start + SegmentAngle(n)
	x1, y1 := polar(cx, cy, r, start)
	x2, y2 := polar(cx, cy, r, end)

	largeArc := 0
	if SegmentAngle(n) > 180 {
		largeArc = 1
	}
	return fmt.Sprintf("M %.3f %.3f L %.3f %.3f A %.3f %.3f 0 %d 1 %.3f %.3f Z",
		cx, cy, x1, y1, r, r, largeArc, x2, y2)
}

// LabelAnchor returns where the label of segment i is drawn and the rotation
// that lays it along the segment's radius
func LabelAnchor(i, n int, cx, cy, r float64) (x, y, rotate float64) {
	center := SegmentCenter(i, n)
	x, y = polar(cx, cy, r*0.62, center)
	return x, y, center - 90
}

func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := (deg - 90) * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

// LabelLimit is the longest label shown without elision
const LabelLimit = 12

// Label shortens a display label for drawing on a segment.
func Label(name string) string {
	runes := []rune(name)
	if len(runes) <= LabelLimit {
		return name
	}
	return string(runes[:LabelLimit-2]) + "..."
}

// Colors cycles through segment fills
var Colors = []string{
	"#ef4444",
	"#f97316",
	"#eab308",
	"#22c55e",
	"#06b6d4",
	"#3b82f6",
	"#a855f7",
	"#ec4899",
}

// Color returns the fill for segment i
func Color(i int) string {
	return Colors[i%len(Colors)]
}
