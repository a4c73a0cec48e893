package embeddings

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// lexicalDimension is the width of vectors produced by the lexical tier.
const lexicalDimension = 100

// lexicalEmbed projects the TF-IDF matrix of texts onto its leading singular
// directions. The projection is fitted on this batch only, so vectors from
// different calls are not comparable.
func lexicalEmbed(texts []string) ([][]float64, error) {
	rows, err := tfidfMatrix(texts)
	if err != nil {
		return nil, err
	}

	n, v := len(rows), len(rows[0])
	data := make([]float64, 0, n*v)
	for _, row := range rows {
		data = append(data, row...)
	}

	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(n, v, data), mat.SVDThin); !ok {
		return nil, errors.New("svd factorization failed")
	}

	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	k := len(values)
	if k > lexicalDimension {
		k = lexicalDimension
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, lexicalDimension)
	}

	for c := 0; c < k; c++ {
		// Deterministic sign: the largest-magnitude entry of each component is positive.
		sign, best := 1.0, 0.0
		for i := 0; i < n; i++ {
			if x := u.At(i, c); math.Abs(x) > best {
				best = math.Abs(x)
				if x < 0 {
					sign = -1
				} else {
					sign = 1
				}
			}
		}
		for i := 0; i < n; i++ {
			out[i][c] = sign * u.At(i, c) * values[c]
		}
	}

	return out, nil
}
