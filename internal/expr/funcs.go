package expr

import (
	"math"
	"math/rand"
)

var rngSource = rand.New(rand.NewSource(1))

func randFloat(max float64) float64 {
	if max <= 0 {
		return 0
	}
	return rngSource.Float64() * max
}

// builtinFunc is a MilkDrop dialect function: a fixed arity and a pure
// float-to-float implementation. Domain violations (sqrt of a negative
// number, log of a non-positive number) return an error so the caller can
// fault the owning statement rather than propagate NaN silently.
type builtinFunc struct {
	arity int // -1 means variadic
	fn    func(args []float64) (float64, error)
}

func truthy(x float64) float64 {
	if x != 0 {
		return 1
	}
	return 0
}

const equalEpsilon = 1e-6

var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		// Trig
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"asin":  unary(math.Asin),
		"acos":  unary(math.Acos),
		"atan":  unary(math.Atan),
		"sinh":  unary(math.Sinh),
		"cosh":  unary(math.Cosh),
		"tanh":  unary(math.Tanh),
		"atan2": binary(math.Atan2),

		// Exp/Log
		"sqrt": {arity: 1, fn: func(a []float64) (float64, error) {
			if a[0] < 0 {
				return 0, domainErr("sqrt", a[0])
			}
			return math.Sqrt(a[0]), nil
		}},
		"pow": binary(math.Pow),
		"exp": unary(math.Exp),
		"log": {arity: 1, fn: func(a []float64) (float64, error) {
			if a[0] <= 0 {
				return 0, domainErr("log", a[0])
			}
			return math.Log(a[0]), nil
		}},
		"ln": {arity: 1, fn: func(a []float64) (float64, error) {
			if a[0] <= 0 {
				return 0, domainErr("ln", a[0])
			}
			return math.Log(a[0]), nil
		}},
		"log10": {arity: 1, fn: func(a []float64) (float64, error) {
			if a[0] <= 0 {
				return 0, domainErr("log10", a[0])
			}
			return math.Log10(a[0]), nil
		}},

		// Rounding
		"abs":   unary(math.Abs),
		"sign":  unary(func(x float64) float64 { return float64(sign(x)) }),
		"fract": unary(func(x float64) float64 { return x - math.Trunc(x) }),
		"trunc": unary(math.Trunc),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"round": unary(math.Round),
		"int":   unary(math.Trunc),

		// Geometric
		"sqr": unary(func(x float64) float64 { return x * x }),
		"rad": unary(func(x float64) float64 { return x * math.Pi / 180 }),
		"deg": unary(func(x float64) float64 { return x * 180 / math.Pi }),

		// Comparison (float-valued booleans)
		"above": binary(func(a, b float64) float64 {
			if a > b {
				return 1
			}
			return 0
		}),
		"below": binary(func(a, b float64) float64 {
			if a < b {
				return 1
			}
			return 0
		}),
		"equal": binary(func(a, b float64) float64 {
			if math.Abs(a-b) <= equalEpsilon {
				return 1
			}
			return 0
		}),

		// Boolean (operate on truthiness of float args)
		"bnot": unary(func(x float64) float64 { return 1 - truthy(x) }),
		"band": binary(func(a, b float64) float64 { return truthy(a) * truthy(b) }),
		"bor": binary(func(a, b float64) float64 {
			ah, bh := truthy(a), truthy(b)
			return ah + bh - ah*bh
		}),

		// Conditional
		"milkif": {arity: 3, fn: func(a []float64) (float64, error) {
			if a[0] != 0 {
				return a[1], nil
			}
			return a[2], nil
		}},

		// Misc
		"fmod": {arity: 2, fn: func(a []float64) (float64, error) {
			if a[1] == 0 {
				return 0, domainErr("fmod", a[1])
			}
			return math.Mod(a[0], a[1]), nil
		}},
		"clamp": {arity: 3, fn: func(a []float64) (float64, error) {
			x, lo, hi := a[0], a[1], a[2]
			if lo > hi {
				lo, hi = hi, lo
			}
			return math.Min(math.Max(x, lo), hi), nil
		}},
		"min": {arity: 2, fn: func(a []float64) (float64, error) { return math.Min(a[0], a[1]), nil }},
		"max": {arity: 2, fn: func(a []float64) (float64, error) { return math.Max(a[0], a[1]), nil }},
		"rand": {arity: 1, fn: func(a []float64) (float64, error) {
			return randFloat(a[0]), nil
		}},
	}
}

func unary(f func(float64) float64) builtinFunc {
	return builtinFunc{arity: 1, fn: func(a []float64) (float64, error) { return f(a[0]), nil }}
}

func binary(f func(a, b float64) float64) builtinFunc {
	return builtinFunc{arity: 2, fn: func(a []float64) (float64, error) { return f(a[0], a[1]), nil }}
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func domainErr(name string, arg float64) error {
	return &domainError{fn: name, arg: arg}
}

type domainError struct {
	fn  string
	arg float64
}

func (e *domainError) Error() string {
	return e.fn + ": domain error for argument"
}
