package degradation

import (
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
)

// DefaultMinSamples is the minimum number of matching laps required to fit a
// model unless overridden via WithMinSamples.
const DefaultMinSamples = 10

type fitConfig struct {
	minSamples int
}

type FitOption func(*fitConfig)

func WithMinSamples(arg int) FitOption {
	return func(c *fitConfig) { c.minSamples = arg }
}

// fitModel computes the linear coefficients for the given laps.
// The track temperature term is included only when every lap carries a value.
func fitModel(key Key, laps []model.Lap, minSamples int) (*FittedModel, error) {
	usable := lo.Filter(laps, func(l model.Lap, _ int) bool {
		return l.Compound == key.Compound && l.LapInStint >= 1 && l.LapTime > 0
	})
	if len(usable) < minSamples {
		return nil, &InsufficientDataError{
			Key: key, Samples: len(usable), MinSamples: minSamples,
		}
	}

	withTemp := lo.CountBy(usable, func(l model.Lap) bool {
		return l.TrackTemp != nil
	})
	useTemp := withTemp == len(usable)

	cols := 3
	if useTemp {
		cols = 4
	}
	x := make([][]float64, 0, len(usable))
	y := make([]float64, 0, len(usable))
	tempSum := 0.0
	for i := range usable {
		l := &usable[i]
		row := make([]float64, 0, cols)
		row = append(row, 1.0, float64(l.LapInStint), l.FuelKg)
		if useTemp {
			row = append(row, *l.TrackTemp)
			tempSum += *l.TrackTemp
		}
		x = append(x, row)
		y = append(y, l.LapTime)
	}

	beta, err := solveLeastSquares(x, y)
	if err != nil {
		return nil, err
	}

	ret := &FittedModel{
		Key: key,
		Coef: Coefficients{
			Intercept:  beta[0],
			LapInStint: beta[1],
			FuelKg:     beta[2],
		},
		HasTrackTemp: useTemp,
		Samples:      len(usable),
	}
	if useTemp {
		ret.Coef.TrackTemp = beta[3]
		ret.MeanTrackTemp = tempSum / float64(len(usable))
	}
	return ret, nil
}

// solveLeastSquares solves the ordinary least squares problem via the normal
// equations (XᵀX)β = Xᵀy. The system is tiny (3 or 4 unknowns), so Gaussian
// elimination with partial pivoting is sufficient.
func solveLeastSquares(x [][]float64, y []float64) ([]float64, error) {
	p := len(x[0])
	a := make([][]float64, p)
	b := make([]float64, p)
	for i := 0; i < p; i++ {
		a[i] = make([]float64, p)
	}
	for r := range x {
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				a[i][j] += x[r][i] * x[r][j]
			}
			b[i] += x[r][i] * y[r]
		}
	}

	const eps = 1e-10
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return nil, ErrSingularFit
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < p; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < p; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	beta := make([]float64, p)
	for i := p - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < p; j++ {
			sum -= a[i][j] * beta[j]
		}
		beta[i] = sum / a[i][i]
	}
	return beta, nil
}
