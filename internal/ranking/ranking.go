// Package ranking scores documents against a query with TF-IDF weighted
// cosine similarity and orders them by score.
package ranking

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
)

// tokenPattern keeps runs of at least two word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector is a sparse term-weight vector indexed by vocabulary position.
type Vector map[int]float64

// Vectorizer holds a vocabulary and inverse document frequencies learnt from
// a corpus.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// Analyze splits text into the terms counted by the vectorizer.
func Analyze(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// Fit learns the vocabulary and smoothed IDF of the corpus:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func Fit(corpus []string) *Vectorizer {
	v := &Vectorizer{vocabulary: make(map[string]int)}
	var df []int

	for _, doc := range corpus {
		seen := make(map[int]struct{})
		for _, term := range Analyze(doc) {
			idx, ok := v.vocabulary[term]
			if !ok {
				idx = len(df)
				v.vocabulary[term] = idx
				df = append(df, 0)
			}
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}

	n := float64(len(corpus))
	v.idf = make([]float64, len(df))
	for i, count := range df {
		v.idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}

	return v
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.idf)
}

// IDF returns the inverse document frequency of term and whether the term
// is in the vocabulary.
func (v *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.vocabulary[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

// Transform returns the L2-normalised TF-IDF vector of text. Terms outside
// the vocabulary are ignored.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	for _, term := range Analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var sum float64
	for idx, tf := range vec {
		w := tf * v.idf[idx]
		vec[idx] = w
		sum += w * w
	}

	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of a and b clamped to [0,1]. Zero
// vectors have similarity 0.
func Cosine(a, b Vector) float64 {
	var dot, na, nb float64
	for idx, w := range a {
		na += w * w
		dot += w * b[idx]
	}
	for _, w := range b {
		nb += w * w
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return min(max(dot/(math.Sqrt(na)*math.Sqrt(nb)), 0), 1)
}

// Round rounds x to three decimal places using the exact decimal value of
// x, so binary values just below a half round down and exact halves round
// to even.
func Round(x float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 3, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}

// Scores fits a vectorizer on the documents plus the query and returns the
// rounded similarity of every document to the query, in input order.
func Scores(documents []string, query string) []float64 {
	scores := make([]float64, len(documents))
	if len(documents) == 0 {
		return scores
	}

	corpus := append(slices.Clone(documents), query)
	vectorizer := Fit(corpus)
	if vectorizer.Len() == 0 {
		return scores
	}

	q := vectorizer.Transform(query)
	for i, doc := range documents {
		scores[i] = Round(Cosine(vectorizer.Transform(doc), q))
	}
	return scores
}

// Rank sorts items by descending score. Items with equal scores keep their
// input order.
func Rank[T any](items []T, score func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
}
