package ascent

import (
	"fmt"
	"math"
	"testing"

	"github.com/gonum/floats"
)

const angleε = 1e-9

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// vectorsEqual returns whether both vectors are equal within a relative tolerance of 1e-9.
func vectorsEqual(a, b Vector3) bool {
	as, bs := a.Slice(), b.Slice()
	for i := range as {
		if !floats.EqualWithinAbsOrRel(as[i], bs[i], 1e-9, 1e-9) {
			return false
		}
	}
	return true
}

//anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε || 2*math.Pi-diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}

// countingLogger counts the log lines per level.
type countingLogger struct {
	levels map[string]int
}

func newCountingLogger() *countingLogger {
	return &countingLogger{levels: make(map[string]int)}
}

func (l *countingLogger) Log(keyvals ...interface{}) error {
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == "level" {
			l.levels[fmt.Sprint(keyvals[i+1])]++
		}
	}
	return nil
}

// testBody returns the Earth with its reference atmosphere.
func testBody(t *testing.T) *Body {
	earth, err := Earth(nil)
	if err != nil {
		t.Fatal(err)
	}
	return earth
}
