package quantize

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// attempt is the outcome of a single k-means run.
type attempt struct {
	labels    []int32
	centroids []float64 // k*3 Lab values
	variance  float64
	converged bool
}

// runKMeans performs one clustering attempt over n Lab feature triples.
func runKMeans(features []float64, n, k, maxIter int, tol float64, rng *rand.Rand) attempt {
	centroids := seedCentroids(features, n, k, rng)
	labels := make([]int32, n)

	sums := make([]float64, k*3)
	counts := make([]int, k)
	prev := make([]float64, 3)

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		changed := 0
		for i := 0; i < n; i++ {
			c, _ := nearestCentroid(features, i, centroids, k)
			if labels[i] != c {
				labels[i] = c
				changed++
			}
		}

		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < n; i++ {
			c := int(labels[i])
			floats.Add(sums[c*3:c*3+3], features[i*3:i*3+3])
			counts[c]++
		}

		maxShift := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue // empty cluster keeps its centroid
			}
			copy(prev, centroids[c*3:c*3+3])
			copy(centroids[c*3:c*3+3], sums[c*3:c*3+3])
			floats.Scale(1/float64(counts[c]), centroids[c*3:c*3+3])
			shift := floats.Distance(prev, centroids[c*3:c*3+3], 2)
			if shift > maxShift {
				maxShift = shift
			}
		}

		if changed == 0 || maxShift < tol {
			converged = true
			break
		}
	}

	// Settle labels against the final centroids and total up the variance.
	variance := 0.0
	for i := 0; i < n; i++ {
		c, d2 := nearestCentroid(features, i, centroids, k)
		labels[i] = c
		variance += d2
	}

	return attempt{labels: labels, centroids: centroids, variance: variance, converged: converged}
}

// nearestCentroid returns the index of the closest centroid to feature triple
// i and the squared distance to it. Ties go to the lowest index, which keeps
// degenerate (duplicate-centroid) runs deterministic.
func nearestCentroid(features []float64, i int, centroids []float64, k int) (int32, float64) {
	fl := features[i*3]
	fa := features[i*3+1]
	fb := features[i*3+2]

	best := int32(0)
	bestD := math.MaxFloat64
	for c := 0; c < k; c++ {
		dl := fl - centroids[c*3]
		da := fa - centroids[c*3+1]
		db := fb - centroids[c*3+2]
		d := dl*dl + da*da + db*db
		if d < bestD {
			bestD = d
			best = int32(c)
		}
	}
	return best, bestD
}

// seedCentroids picks k starting centroids with the K-means++ strategy: the
// first uniformly at random, each subsequent one weighted by squared distance
// to the nearest centroid chosen so far.
func seedCentroids(features []float64, n, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, k*3)

	first := rng.Intn(n)
	copy(centroids[0:3], features[first*3:first*3+3])

	distSq := make([]float64, n)
	for i := 0; i < n; i++ {
		distSq[i] = sqDist3(features, i, centroids, 0)
	}

	for c := 1; c < k; c++ {
		total := 0.0
		for _, d := range distSq {
			total += d
		}

		var pick int
		if total <= 0 {
			// All remaining points coincide with a chosen centroid
			// (single-color image); any pick degenerates to duplicates.
			pick = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			pick = n - 1
			for i := 0; i < n; i++ {
				acc += distSq[i]
				if acc >= target {
					pick = i
					break
				}
			}
		}
		copy(centroids[c*3:c*3+3], features[pick*3:pick*3+3])

		for i := 0; i < n; i++ {
			if d := sqDist3(features, i, centroids, c); d < distSq[i] {
				distSq[i] = d
			}
		}
	}
	return centroids
}

// sqDist3 returns the squared distance between feature triple i and centroid c.
func sqDist3(features []float64, i int, centroids []float64, c int) float64 {
	dl := features[i*3] - centroids[c*3]
	da := features[i*3+1] - centroids[c*3+1]
	db := features[i*3+2] - centroids[c*3+2]
	return dl*dl + da*da + db*db
}
