package sym

import "github.com/sahilm/fuzzy"

// maxSuggestions limits how many nearby spellings an unresolved-name
// error offers.
const maxSuggestions = 3

// Suggest returns names near the misspelled name. With lexical set, the
// candidate pool includes enclosing scopes; otherwise only direct
// children of scope.
func Suggest(scope *Symbol, name string, lexical bool) []string {
	var pool []string

	seen := make(map[string]struct{})

	for cur := scope; cur != nil; cur = cur.parent {
		for _, candidate := range cur.order {
			if _, ok := seen[candidate]; ok {
				continue
			}

			seen[candidate] = struct{}{}
			pool = append(pool, candidate)
		}

		if !lexical {
			break
		}
	}

	return SuggestNames(name, pool)
}

// SuggestNames returns names from the candidate pool near the
// misspelled name.
func SuggestNames(name string, pool []string) []string {
	matches := fuzzy.Find(name, pool)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	hints := make([]string, len(matches))
	for i, m := range matches {
		hints[i] = m.Str
	}

	return hints
}
