package arq

// Space is a cyclic sequence number space. Size numbers are reused modularly
// and windows span Window consecutive numbers. Both state machines test
// window membership through it so the modular arithmetic lives in one place.
type Space struct {
	Size   int
	Window int
}

// NewSpace returns the minimum legal space for a window of w packets,
// w+1 sequence numbers.
func NewSpace(w int) Space {
	return Space{Size: w + 1, Window: w}
}

// Dist returns the forward modular distance from base to x.
func (s Space) Dist(base, x int) int {
	return ((x-base)%s.Size + s.Size) % s.Size
}

// InWindow reports whether x falls in [base, base+Window) mod Size. Values
// outside the sequence space (the NotInUse sentinel in particular) are never
// in any window.
func (s Space) InWindow(base, x int) bool {
	return x >= 0 && x < s.Size && s.Dist(base, x) < s.Window
}

// Next returns the sequence number after x.
func (s Space) Next(x int) int {
	return (x + 1) % s.Size
}

// Prev returns the sequence number before x.
func (s Space) Prev(x int) int {
	return (x + s.Size - 1) % s.Size
}
