package impute

import (
	"context"
	"fmt"
	"testing"

	fr "github.com/wdm0006/classimpute/pkg/frame"
)

func makeLargeFrame(n int) *fr.Frame {
	x := fr.NewFloatColumn("x", n)
	s := fr.NewStringColumn("s", n)
	y := fr.NewStringColumn("y", n)
	for i := 0; i < n; i++ {
		y.Set(i, fmt.Sprintf("c%d", i%5))
		if i%2 == 0 {
			x.Set(i, float64(i%10))
		} else {
			x.SetNull(i)
		}
		if i%3 == 0 {
			s.SetNull(i)
		} else {
			s.Set(i, fmt.Sprintf("v%d", i%7))
		}
	}
	return mustFrame(x, s, y)
}

func BenchmarkRun(b *testing.B) {
	base := makeLargeFrame(10000)
	im := New()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := im.Run(context.Background(), base, "y"); err != nil {
			b.Fatal(err)
		}
	}
}
