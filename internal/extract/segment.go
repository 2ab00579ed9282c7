package extract

import "strings"

// clauseDelimiters are the sentence- and clause-ending punctuation marks, in
// both the source script and their Latin forms.
const clauseDelimiters = "。．！？；，、.!?;,"

// Clauses splits one utterance into ordered, trimmed clause fragments. Empty
// fragments are dropped. Splitting never fails; a non-empty trimmed input
// yields at least one clause.
func Clauses(utterance string) []string {
	fields := strings.FieldsFunc(utterance, func(r rune) bool {
		return strings.ContainsRune(clauseDelimiters, r)
	})

	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			clauses = append(clauses, f)
		}
	}
	return clauses
}
