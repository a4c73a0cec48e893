package embeddings

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const maxFeatures = 1000

var (
	tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

	errEmptyVocabulary = errors.New("empty vocabulary: texts contain only stop words")
)

// stopWords is the English stop word list applied before building n-grams.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above across after afterwards again against all almost alone along
already also although always am among amongst an and another any anyhow anyone anything anyway anywhere
are around as at back be became because become becomes becoming been before beforehand behind being below
beside besides between beyond both bottom but by call can cannot could de describe detail do done down due
during each eg either else elsewhere empty enough etc even ever every everyone everything everywhere except
few fill find first for former formerly from front full further get give go had has hasnt have he hence her
here hereafter hereby herein hereupon hers herself him himself his how however ie if in inc indeed interest
into is it its itself keep last latter latterly least less ltd made many may me meanwhile might mine more
moreover most mostly move much must my myself name namely neither never nevertheless next no nobody none
noone nor not nothing now nowhere of off often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see seem seemed seeming seems serious
several she should show side since sincere so some somehow someone something sometime sometimes somewhere
still such take than that the their them themselves then thence there thereafter thereby therefore therein
thereupon these they thick thin third this those though through throughout thru thus to together too top
toward towards under until up upon us very via was we well were what whatever when whence whenever where
whereafter whereas whereby wherein whereupon wherever whether which while whither who whoever whole whom
whose why will with within without would yet you your yours yourself yourselves`) {
		stopWords[w] = struct{}{}
	}
}

// analyze lower-cases text, drops stop words and returns unigrams followed by bigrams.
func analyze(text string) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// tfidfMatrix vectorizes texts with smoothed idf and L2-normalized rows. The
// vocabulary is fitted on texts only and capped at maxFeatures terms by corpus
// frequency.
func tfidfMatrix(texts []string) ([][]float64, error) {
	counts := make([]map[string]int, len(texts))
	corpus := make(map[string]int)
	docFreq := make(map[string]int)

	for i, text := range texts {
		counts[i] = make(map[string]int)
		for _, term := range analyze(text) {
			counts[i][term]++
			corpus[term]++
		}
		for term := range counts[i] {
			docFreq[term]++
		}
	}

	if len(corpus) == 0 {
		return nil, errEmptyVocabulary
	}

	vocab := make([]string, 0, len(corpus))
	for term := range corpus {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpus[vocab[i]] != corpus[vocab[j]] {
			return corpus[vocab[i]] > corpus[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}
	sort.Strings(vocab)

	n := float64(len(texts))
	rows := make([][]float64, len(texts))
	for i := range texts {
		row := make([]float64, len(vocab))
		var norm float64
		for j, term := range vocab {
			tf := counts[i][term]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(docFreq[term]))) + 1
			row[j] = float64(tf) * idf
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return rows, nil
}

// TFIDFSimilarity vectorizes the two texts together and returns the cosine
// similarity of their TF-IDF vectors in [0, 1]. It returns 0 when either text
// has no usable terms.
func TFIDFSimilarity(a, b string) float64 {
	rows, err := tfidfMatrix([]string{a, b})
	if err != nil {
		return 0
	}
	return Similarity(rows[0], rows[1])
}
