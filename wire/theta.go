package wire

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/oqtopus-team/quantum-emulator/sim"
)

// some editors send π as its latin-1 mis-decoding
var thetaNormalizer = strings.NewReplacer("Ï€", "π", "Π", "π", " ", "")

// ParseTheta reads a rotation angle in radians. Besides plain numbers it
// accepts products and quotients of numbers and π, written as "π" or "pi":
// "π", "-π/2", "3π/4", "2*pi", "0.5π", "pi/3*2".
func ParseTheta(s string) (float64, error) {
	expr := strings.ToLower(thetaNormalizer.Replace(strings.TrimSpace(s)))
	if expr == "" {
		return 0, errors.Wrap(sim.ErrMissingParameter, "empty theta")
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, errors.Wrapf(sim.ErrMissingParameter, "theta %q is not finite", s)
		}
		return v, nil
	}

	sign := 1.0
	switch expr[0] {
	case '-':
		sign = -1
		expr = expr[1:]
	case '+':
		expr = expr[1:]
	}

	value := 1.0
	op := byte('*')
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && expr[i] != '*' && expr[i] != '/' {
			continue
		}
		f, err := parseThetaFactor(expr[start:i])
		if err != nil {
			return 0, errors.Wrapf(sim.ErrMissingParameter, "invalid theta %q", s)
		}
		if op == '*' {
			value *= f
		} else {
			if f == 0 {
				return 0, errors.Wrapf(sim.ErrMissingParameter, "theta %q divides by zero", s)
			}
			value /= f
		}
		if i < len(expr) {
			op = expr[i]
		}
		start = i + 1
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, errors.Wrapf(sim.ErrMissingParameter, "theta %q is not finite", s)
	}
	return sign * value, nil
}

// parseThetaFactor reads "2", "π", "3π" or "0.5pi".
func parseThetaFactor(f string) (float64, error) {
	coef, isPi := f, false
	switch {
	case strings.HasSuffix(f, "π"):
		coef, isPi = strings.TrimSuffix(f, "π"), true
	case strings.HasSuffix(f, "pi"):
		coef, isPi = strings.TrimSuffix(f, "pi"), true
	}
	if coef == "" {
		if isPi {
			return math.Pi, nil
		}
		return 0, errors.New("empty factor")
	}
	v, err := strconv.ParseFloat(coef, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New("factor is not finite")
	}
	if isPi {
		v *= math.Pi
	}
	return v, nil
}
