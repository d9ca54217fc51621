// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokenize

var stopWords = toSet(
	// articles and determiners
	"a", "an", "the", "this", "that", "these", "those", "some", "any", "each", "every", "such",
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around", "at",
	"before", "behind", "below", "beneath", "beside", "between", "beyond", "by",
	"down", "during", "except", "for", "from", "in", "inside", "into", "near", "of",
	"off", "on", "onto", "out", "outside", "over", "past", "since", "through",
	"throughout", "to", "toward", "towards", "under", "until", "up", "upon", "via",
	"with", "within", "without",
	// conjunctions
	"and", "but", "or", "nor", "so", "yet", "if", "then", "than", "because", "as", "while", "whether",
	// auxiliary and modal verbs
	"am", "is", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "doing", "done",
	"have", "has", "had", "having",
	"can", "could", "may", "might", "must", "shall", "should", "will", "would",
	"dont", "doesnt", "didnt", "isnt", "arent", "wasnt", "werent", "cant", "wont",
	// pronouns
	"i", "me", "my", "mine", "we", "us", "our", "ours", "you", "your", "yours",
	"he", "him", "his", "she", "her", "hers", "it", "its", "they", "them", "their", "theirs",
	"myself", "yourself", "itself", "themselves",
	// question words and fillers
	"what", "which", "who", "whom", "whose", "when", "where", "why", "how",
	"there", "here", "also", "just", "very", "too", "not", "no", "only", "own", "same",
	"again", "further", "more", "most", "other", "all", "both", "few", "now",
	"tell", "please", "explain", "describe",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
