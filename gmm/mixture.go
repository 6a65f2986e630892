package gmm

// weightEpsilon is the float32 machine epsilon, used when testing whether
// the cumulative weight scan has crossed the minimum background ratio.
const weightEpsilon = 1.1920929e-07

// modelParams is the subset of the configuration the per-pixel update needs.
// It is read-only during a step.
type modelParams struct {
	numGaussians       int
	initialVariance    float32
	initialWeight      float32
	varianceThreshold  float32
	minBackgroundRatio float32
}

// mixture is the ranked Gaussian mixture for a single pixel. Components are
// kept sorted by descending rank at all times, and their weights sum to one
// after every update.
type mixture struct {
	pixel      int
	components []gaussian
}

// findMatchAndUpdate scans the ranked components for the first one the
// sample matches, updates it (or creates a new lowest-weight component when
// nothing matches), and renormalizes all weights. It returns the index of
// the matched or created component after re-ranking.
//
// The normalization factor is derived analytically: the weight sum is one
// before the update and the weight-update rule is known in closed form, so
// the post-update sum never has to be recomputed by summation.
func (m *mixture) findMatchAndUpdate(sample []float32, learningRate float32, p *modelParams) int {
	match := -1
	for i := range m.components {
		if m.components[i].isMatch(sample, p.varianceThreshold) {
			match = i // first to match wins
			break
		}
	}

	var scaleFactor float32
	if match >= 0 {
		// Updating the matched weight by w += rate*(1-w) changes the sum
		// from 1 to 1 + rate*(1-w).
		weight := m.components[match].weight
		scaleFactor = 1 / (1 + learningRate*(1-weight))

		m.components[match].update(sample, learningRate)
		match = m.percolate(match)
	} else {
		// No component explains the sample. Evict the lowest-ranked mode
		// if the model is at capacity, then start a new mode at the sample.
		weight := p.initialWeight
		if last := len(m.components) - 1; last >= 0 && len(m.components) == p.numGaussians {
			weight -= m.components[last].weight // adjust for the evicted weight
			m.components = m.components[:last]
		}

		m.components = append(m.components, newGaussian(sample, p.initialWeight, p.initialVariance))
		match = len(m.components) - 1

		// The sum was 1 before the eviction/append except when the model
		// was empty, which needs its own case to avoid dividing garbage.
		if len(m.components) == 1 {
			scaleFactor = 1 / weight
		} else {
			scaleFactor = 1 / (1 + weight)
		}
	}

	for i := range m.components {
		m.components[i].scaleWeight(scaleFactor)
	}
	return match
}

// percolate moves the component at index i toward the front while it
// outranks its predecessor, restoring descending rank order. At most one
// component changed rank, so adjacent swaps suffice.
func (m *mixture) percolate(i int) int {
	for i > 0 && m.components[i].outranks(&m.components[i-1]) {
		m.components[i], m.components[i-1] = m.components[i-1], m.components[i]
		i--
	}
	return i
}

// isForeground decides whether the matched component belongs to the
// background portion of the mixture: the highest-ranked modes whose
// cumulative weight reaches the minimum background ratio.
func (m *mixture) isForeground(match int, minBackgroundRatio float32) bool {
	// The top-ranked mode is always background.
	if match == 0 {
		return false
	}

	var sum float32
	for i := range m.components {
		sum += m.components[i].weight
		if minBackgroundRatio-sum <= weightEpsilon {
			// Crossed the ratio: the matched component is background only
			// if it is the mode that crossed it.
			return i != match
		}
		if i == match {
			// Reached the match below the ratio. Ranks are descending and
			// the sum is still growing, so it is part of the background.
			return false
		}
	}

	// The weight invariant guarantees the scan resolves at or before the
	// matched component. Getting here means the update algorithm is broken.
	panic("gmm: cumulative weight scan exhausted the mixture; weight invariant violated")
}

// reset empties the mixture while keeping its reserved capacity.
func (m *mixture) reset() {
	m.components = m.components[:0]
}
