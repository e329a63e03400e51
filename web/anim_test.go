package web

import (
	"math"
	"testing"

	"badc0de.net/pkg/go-dmi/dmi"
	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestFrameDelays(t *testing.T) {
	s := &dmi.State{Name: "slow", Dirs: 1, Frames: 4, Delay: []float64{2.5, 6553.5, 7000, 1e9}}

	for _, tc := range []struct {
		frame    int
		num, den uint16
		gif      int
	}{
		{0, 25, 100, 25},
		{1, 65535, 100, 65535},
		{2, 700, 1, 65535},
		{3, math.MaxUint16, 1, 65535},
	} {
		num, den := apngDelay(s, tc.frame)
		ttesting.AssertEqualInt(t, "apng numerator", int(num), int(tc.num))
		ttesting.AssertEqualInt(t, "apng denominator", int(den), int(tc.den))
		ttesting.AssertEqualInt(t, "gif delay", gifDelay(s, tc.frame), tc.gif)
	}

	// Frames past the delay list last one tick.
	num, den := apngDelay(s, 9)
	ttesting.AssertEqualInt(t, "default numerator", int(num), 10)
	ttesting.AssertEqualInt(t, "default denominator", int(den), 100)
}
