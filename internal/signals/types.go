package signals

// #region expert-interface

// Expert abstracts one change-set heuristic so the fusion engine can hold
// any mix of them and tests can substitute fixed opinions.
type Expert interface {
	Name() string
	Opinion(text string) Opinion
}

// #endregion expert-interface

// #region opinion

// Width is the length of every opinion vector.
const Width = 128

// Opinion is an expert's confidence broadcast across a fixed-width vector.
type Opinion []float64

// Broadcast fills a Width-long opinion with v.
func Broadcast(v float64) Opinion {
	o := make(Opinion, Width)
	for i := range o {
		o[i] = v
	}
	return o
}

// Mean returns the average entry, or 0 for an empty opinion.
func (o Opinion) Mean() float64 {
	if len(o) == 0 {
		return 0
	}
	var sum float64
	for _, v := range o {
		sum += v
	}
	return sum / float64(len(o))
}

// #endregion opinion
