package predictor

import "math"

// scaler standardizes features to zero mean and unit variance. Parameters
// are fit once on the training split and frozen for all later inference.
type scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func fitScaler(rows [][]float64) *scaler {
	if len(rows) == 0 {
		return &scaler{}
	}
	n := len(rows[0])
	means := make([]float64, n)
	stds := make([]float64, n)

	for _, row := range rows {
		for i, v := range row {
			means[i] += v
		}
	}
	for i := range means {
		means[i] /= float64(len(rows))
	}
	for _, row := range rows {
		for i, v := range row {
			d := v - means[i]
			stds[i] += d * d
		}
	}
	for i := range stds {
		stds[i] = math.Sqrt(stds[i] / float64(len(rows)))
		if stds[i] == 0 {
			stds[i] = 1
		}
	}
	return &scaler{Means: means, Stds: stds}
}

func (s *scaler) transform(row []float64) []float64 {
	if len(s.Means) != len(row) {
		return row
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Means[i]) / s.Stds[i]
	}
	return out
}

func (s *scaler) transformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.transform(row)
	}
	return out
}
