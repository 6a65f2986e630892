package gmm

import "github.com/chewxy/math32"

// gaussian is one weighted mode in a per-pixel mixture. The mean is tracked
// per channel; the variance is a single scalar shared by all channels.
type gaussian struct {
	weight   float32
	variance float32
	mean     []float32
}

func newGaussian(sample []float32, weight, variance float32) gaussian {
	mean := make([]float32, len(sample))
	copy(mean, sample)
	return gaussian{weight: weight, variance: variance, mean: mean}
}

// isMatch reports whether the sample falls within the match tolerance of
// this mode. The squared distance across all channels is compared against
// threshold times the total variance, so threshold is in squared standard
// deviation units. No side effects.
func (g *gaussian) isMatch(sample []float32, threshold float32) bool {
	var sumDist float32
	for i, m := range g.mean {
		d := sample[i] - m
		sumDist += d * d
	}
	return sumDist < threshold*g.variance*float32(len(g.mean))
}

// update blends the sample into the mode statistics with an exponential
// moving average. The learning rate is applied directly as the blending
// factor; it is not modulated by the Gaussian likelihood of the sample.
func (g *gaussian) update(sample []float32, learningRate float32) {
	var sumSq float32
	for i, m := range g.mean {
		d := sample[i] - m
		g.mean[i] = m + learningRate*d
		sumSq += d * d
	}
	meanSq := sumSq / float32(len(g.mean))
	g.variance += learningRate * (meanSq - g.variance)

	g.weight += learningRate * (1 - g.weight)
}

// rank orders modes from most to least dominant: high weight and low spread
// rank first.
func (g *gaussian) rank() float32 {
	return g.weight / math32.Sqrt(g.variance)
}

func (g *gaussian) outranks(other *gaussian) bool {
	return g.rank() > other.rank()
}

func (g *gaussian) scaleWeight(factor float32) {
	g.weight *= factor
}
