package synthesis

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"swaption-lab/internal/dataset"
)

// Shrinkage ladder applied when the raw correlation matrix fails to
// factorize. Lambda 1 is the identity, which always succeeds.
var shrinkageLadder = []float64{1e-4, 1e-3, 1e-2, 1e-1, 0.5, 1}

// GaussianCopula models the seed table's joint distribution with a Gaussian
// copula over empirical marginals. Numeric and datetime columns transform to
// normal scores through midrank empirical CDFs; categorical columns through
// frequency intervals with uniform noise. Sampling draws correlated normals
// via the Cholesky factor and inverts each marginal.
type GaussianCopula struct {
	rng *rand.Rand
}

// NewGaussianCopula creates a copula synthesizer drawing from rng.
func NewGaussianCopula(rng *rand.Rand) *GaussianCopula {
	return &GaussianCopula{rng: rng}
}

// Fit transforms every column to normal scores, estimates the score
// correlation matrix, and factorizes it. Columns with undefined correlations
// (constant scores) contribute zeros.
func (s *GaussianCopula) Fit(ctx context.Context, tbl *dataset.Table, meta dataset.Metadata) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSeed(tbl, meta); err != nil {
		return nil, err
	}

	cols := make([]*marginal, 0, tbl.Width())
	for _, name := range tbl.Names() {
		kind, _ := meta.KindOf(name)
		m, err := s.fitMarginal(tbl, name, kind)
		if err != nil {
			return nil, fmt.Errorf("fit column %q: %w", name, err)
		}
		cols = append(cols, m)
	}

	d := len(cols)
	corr := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < d; j++ {
			r := stat.Correlation(cols[i].scores, cols[j].scores, nil)
			if math.IsNaN(r) {
				r = 0
			}
			corr.SetSym(i, j, r)
		}
	}

	lower, shrink, err := factorize(corr, d)
	if err != nil {
		return nil, err
	}

	// Scores are only needed to estimate correlations.
	for _, c := range cols {
		c.scores = nil
	}

	return &copulaModel{
		rng:       s.rng,
		cols:      cols,
		lower:     lower,
		shrinkage: shrink,
	}, nil
}

// factorize attempts a Cholesky decomposition, shrinking the off-diagonal
// toward the identity until it succeeds. Returns the lower factor and the
// shrinkage lambda applied.
func factorize(corr *mat.SymDense, d int) (*mat.TriDense, float64, error) {
	var chol mat.Cholesky
	if chol.Factorize(corr) {
		lower := mat.NewTriDense(d, mat.Lower, nil)
		chol.LTo(lower)
		return lower, 0, nil
	}

	for _, lambda := range shrinkageLadder {
		shrunk := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			shrunk.SetSym(i, i, 1)
			for j := i + 1; j < d; j++ {
				shrunk.SetSym(i, j, corr.At(i, j)*(1-lambda))
			}
		}
		if chol.Factorize(shrunk) {
			lower := mat.NewTriDense(d, mat.Lower, nil)
			chol.LTo(lower)
			return lower, lambda, nil
		}
	}
	return nil, 0, ErrNotPositiveDefinite
}

// marginal holds one column's empirical model and its fitted normal scores.
type marginal struct {
	name string
	kind dataset.Kind

	scores []float64 // normal scores, dropped after correlation estimation

	// Numeric and datetime columns.
	sorted   []float64
	integral bool

	// Categorical columns: categories by descending frequency with
	// cumulative interval starts.
	cats   []string
	starts []float64
}

func (s *GaussianCopula) fitMarginal(tbl *dataset.Table, name string, kind dataset.Kind) (*marginal, error) {
	switch kind {
	case dataset.KindNumeric:
		vals, err := tbl.Floats(name)
		if err != nil {
			return nil, err
		}
		return fitNumeric(name, kind, vals), nil

	case dataset.KindDatetime:
		times, err := tbl.Times(name)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(times))
		for i, t := range times {
			vals[i] = float64(t.Unix())
		}
		m := fitNumeric(name, kind, vals)
		m.integral = false
		return m, nil

	case dataset.KindCategorical:
		vals, err := tbl.Strings(name)
		if err != nil {
			return nil, err
		}
		return s.fitCategorical(name, vals), nil

	default:
		return nil, fmt.Errorf("column %q: %w", name, ErrIDColumn)
	}
}

// fitNumeric builds an empirical marginal: normal scores from midranks
// (u = (rank-0.5)/n) and the sorted values for quantile inversion.
func fitNumeric(name string, kind dataset.Kind, vals []float64) *marginal {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		mid := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = mid
		}
		i = j + 1
	}

	scores := make([]float64, n)
	for i, r := range ranks {
		u := (r - 0.5) / float64(n)
		scores[i] = distuv.UnitNormal.Quantile(u)
	}

	sorted := make([]float64, n)
	for i, id := range idx {
		sorted[i] = vals[id]
	}

	integral := true
	for _, v := range vals {
		if math.Trunc(v) != v {
			integral = false
			break
		}
	}

	return &marginal{name: name, kind: kind, scores: scores, sorted: sorted, integral: integral}
}

// fitCategorical assigns each category a cumulative frequency interval
// (descending frequency, name-ascending on ties) and scores each row with
// uniform noise inside its category's interval.
func (s *GaussianCopula) fitCategorical(name string, vals []string) *marginal {
	counts := make(map[string]int, 16)
	for _, v := range vals {
		counts[v]++
	}

	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(a, b int) bool {
		if counts[cats[a]] != counts[cats[b]] {
			return counts[cats[a]] > counts[cats[b]]
		}
		return cats[a] < cats[b]
	})

	n := float64(len(vals))
	starts := make([]float64, len(cats))
	startOf := make(map[string]float64, len(cats))
	cum := 0.0
	for i, c := range cats {
		starts[i] = cum
		startOf[c] = cum
		cum += float64(counts[c]) / n
	}

	scores := make([]float64, len(vals))
	for i, v := range vals {
		width := float64(counts[v]) / n
		u := startOf[v] + s.rng.Float64()*width
		scores[i] = distuv.UnitNormal.Quantile(clampUnit(u, n))
	}

	return &marginal{name: name, kind: dataset.KindCategorical, scores: scores, cats: cats, starts: starts}
}

// clampUnit keeps a cumulative probability strictly inside (0,1) with a
// half-count offset. The first category's interval starts at 0 and the rng
// may draw exactly 0, which would send the normal quantile to -Inf and
// poison the correlation estimate.
func clampUnit(u, n float64) float64 {
	if u < 0.5/n {
		return 0.5 / n
	}
	if u > 1-0.5/n {
		return 1 - 0.5/n
	}
	return u
}

// copulaModel is the fitted state returned by GaussianCopula.Fit.
type copulaModel struct {
	rng   *rand.Rand
	cols  []*marginal
	lower *mat.TriDense

	// Lambda applied to reach a positive definite correlation matrix;
	// zero when the raw estimate factorized.
	shrinkage float64
}

// AppliedShrinkage reports the correlation shrinkage lambda.
func (m *copulaModel) AppliedShrinkage() float64 {
	return m.shrinkage
}

// Sample draws n rows: correlated standard normals through the Cholesky
// factor, mapped back through each marginal's inverse CDF.
func (m *copulaModel) Sample(ctx context.Context, n int) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrInvalidSampleSize
	}

	d := len(m.cols)
	floatOut := make(map[string][]float64, d)
	stringOut := make(map[string][]string, d)
	timeOut := make(map[string][]time.Time, d)
	for _, c := range m.cols {
		switch c.kind {
		case dataset.KindNumeric:
			floatOut[c.name] = make([]float64, 0, n)
		case dataset.KindCategorical:
			stringOut[c.name] = make([]string, 0, n)
		case dataset.KindDatetime:
			timeOut[c.name] = make([]time.Time, 0, n)
		}
	}

	eps := make([]float64, d)
	z := make([]float64, d)
	for row := 0; row < n; row++ {
		for j := range eps {
			eps[j] = m.rng.NormFloat64()
		}
		for i := 0; i < d; i++ {
			sum := 0.0
			for k := 0; k <= i; k++ {
				sum += m.lower.At(i, k) * eps[k]
			}
			z[i] = sum
		}

		for j, c := range m.cols {
			u := distuv.UnitNormal.CDF(z[j])
			switch c.kind {
			case dataset.KindNumeric:
				floatOut[c.name] = append(floatOut[c.name], c.invertNumeric(u))
			case dataset.KindCategorical:
				stringOut[c.name] = append(stringOut[c.name], c.invertCategorical(u))
			case dataset.KindDatetime:
				secs := c.invertNumeric(u)
				whole := math.Floor(secs)
				nanos := (secs - whole) * float64(time.Second)
				timeOut[c.name] = append(timeOut[c.name], time.Unix(int64(whole), int64(nanos)).UTC())
			}
		}
	}

	out := dataset.NewTable()
	for _, c := range m.cols {
		var err error
		switch c.kind {
		case dataset.KindNumeric:
			err = out.AddFloats(c.name, floatOut[c.name])
		case dataset.KindCategorical:
			err = out.AddStrings(c.name, stringOut[c.name])
		case dataset.KindDatetime:
			err = out.AddTimes(c.name, timeOut[c.name])
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// invertNumeric maps u through the interpolated empirical quantile.
// Values stay inside the observed range; integral columns re-round.
func (c *marginal) invertNumeric(u float64) float64 {
	n := len(c.sorted)
	if u <= 0 {
		return c.sorted[0]
	}
	if u >= 1 {
		return c.sorted[n-1]
	}

	pos := u * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return c.sorted[n-1]
	}
	frac := pos - float64(lo)
	v := c.sorted[lo] + frac*(c.sorted[lo+1]-c.sorted[lo])
	if c.integral {
		v = math.Round(v)
	}
	return v
}

// invertCategorical maps u to the category whose interval contains it.
func (c *marginal) invertCategorical(u float64) string {
	i := sort.SearchFloat64s(c.starts, u)
	if i == len(c.starts) || c.starts[i] > u {
		i--
	}
	if i < 0 {
		i = 0
	}
	return c.cats[i]
}

// Ensure interface compliance
var (
	_ Synthesizer = (*GaussianCopula)(nil)
	_ Model       = (*copulaModel)(nil)
)
