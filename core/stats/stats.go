// Package stats computes descriptive and comparative statistics over sales samples.
// Undefined results are reported through nil fields or ok flags, never NaN.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/salespulse/schema"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// clean drops NaN and infinite values.
func clean(sample []float64) []float64 {
	out := make([]float64, 0, len(sample))
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// mean returns the arithmetic mean and false for an empty sample.
func mean(sample []float64) (float64, bool) {
	if len(sample) == 0 {
		return 0, false
	}
	return stat.Mean(sample, nil), true
}

// studentT returns a standard Student-t distribution with df degrees of freedom.
func studentT(df float64) distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
}

// ConfidenceInterval returns the two-sided (1 - alpha) Student-t interval for
// the mean of sample. Non-finite values are ignored. It panics when alpha is
// outside (0, 1).
func ConfidenceInterval(sample []float64, alpha float64) schema.ConfidenceInterval {
	if !(alpha > 0 && alpha < 1) {
		panic(fmt.Sprintf("stats: alpha must be in (0, 1), got %v", alpha))
	}

	x := clean(sample)
	ci := schema.ConfidenceInterval{N: len(x), Alpha: alpha}
	m, ok := mean(x)
	if !ok {
		return ci
	}
	ci.Mean = schema.Float(m)
	if len(x) < 2 {
		return ci
	}

	se := math.Sqrt(stat.Variance(x, nil)) / math.Sqrt(float64(len(x)))
	critical := studentT(float64(len(x)-1)).Quantile(1 - alpha/2)
	ci.Lower = schema.Float(m - critical*se)
	ci.Upper = schema.Float(m + critical*se)
	return ci
}

// CompareMeans reports which sample has the larger mean and by how much,
// relative to the smaller mean. Ties go to the first sample.
func CompareMeans(labelA string, a []float64, labelB string, b []float64) schema.ComparisonResult {
	res := schema.ComparisonResult{EntityA: labelA, EntityB: labelB, PercentText: schema.Undefined}

	ma, okA := mean(clean(a))
	mb, okB := mean(clean(b))
	if okA {
		res.MeanA = schema.Float(ma)
	}
	if okB {
		res.MeanB = schema.Float(mb)
	}
	if !okA || !okB {
		return res
	}

	baseMean := mb
	res.Winner, res.Base = labelA, labelB
	if mb > ma {
		res.Winner, res.Base = labelB, labelA
		baseMean = ma
	}
	if baseMean == 0 {
		return res
	}

	pct := math.Abs(ma-mb) / baseMean * 100
	res.Percent = schema.Float(pct)
	res.PercentText = FormatPercent(pct)
	return res
}

// FormatPercent renders v with thousands separators and two decimals, e.g. "1,250.00%".
// Exact halves round to even, so 0.125 renders as "0.12%".
func FormatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, ok := strings.Cut(s, ".")
	if !ok {
		return s + "%"
	}
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = humanize.Comma(n)
	}
	return sign + whole + "." + frac + "%"
}

// WelchTTest runs a two-sided unequal-variance t-test. It is undefined when
// either sample has fewer than two finite values or both variances are zero.
func WelchTTest(a, b []float64) (schema.TTestResult, bool) {
	a, b = clean(a), clean(b)
	if len(a) < 2 || len(b) < 2 {
		return schema.TTestResult{}, false
	}

	na, nb := float64(len(a)), float64(len(b))
	va := stat.Variance(a, nil) / na
	vb := stat.Variance(b, nil) / nb
	se2 := va + vb
	if se2 == 0 {
		return schema.TTestResult{}, false
	}

	t := (stat.Mean(a, nil) - stat.Mean(b, nil)) / math.Sqrt(se2)
	df := se2 * se2 / (va*va/(na-1) + vb*vb/(nb-1))
	p := 2 * studentT(df).Survival(math.Abs(t))
	return schema.TTestResult{
		TStatistic:       t,
		PValue:           math.Min(1, math.Max(0, p)),
		DegreesOfFreedom: df,
	}, true
}

// CohensD returns (mean(b) - mean(a)) / pooled standard deviation. It is
// undefined when either sample has fewer than two values or the pooled
// standard deviation is zero.
func CohensD(a, b []float64) (float64, bool) {
	a, b = clean(a), clean(b)
	if len(a) < 2 || len(b) < 2 {
		return 0, false
	}

	na, nb := float64(len(a)), float64(len(b))
	pooled := math.Sqrt(((na-1)*stat.Variance(a, nil) + (nb-1)*stat.Variance(b, nil)) / (na + nb - 2))
	if pooled == 0 {
		return 0, false
	}
	return (stat.Mean(b, nil) - stat.Mean(a, nil)) / pooled, true
}

// Magnitude labels |d| using the given bands.
func Magnitude(d float64, bands schema.EffectBands) string {
	switch ad := math.Abs(d); {
	case ad < bands.Small:
		return schema.EffectVerySmall
	case ad < bands.Medium:
		return schema.EffectSmall
	case ad < bands.Large:
		return schema.EffectMedium
	default:
		return schema.EffectLarge
	}
}
