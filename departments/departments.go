// Package departments maps department codes to names and resolves free-text
// department queries ("math", "computer science", "CS") to subject codes.
package departments

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type department struct {
	code string
	name string
}

// catalog is ordered; alias resolution breaks ties by this order.
var catalog = []department{
	{"AA", "African American Black Diaspora Studies"},
	{"AH", "History of Art Architecture"},
	{"AI", "Asian Studies"},
	{"AM", "American New England Studies"},
	{"AN", "Anthropology"},
	{"AR", "Archaeology"},
	{"AS", "Astronomy"},
	{"BB", "Biochemistry Molecular Biology"},
	{"BI", "Biology"},
	{"CH", "Chemistry"},
	{"CI", "Cinema Media Studies"},
	{"CL", "Classical Studies"},
	{"CS", "Computer Science"},
	{"EC", "Economics"},
	{"EE", "Earth Environment"},
	{"EN", "English"},
	{"HI", "History"},
	{"MA", "Mathematics Statistics"},
	{"ME", "Middle East North Africa Studies"},
	{"MU", "Music"},
	{"NE", "Neuroscience"},
	{"PH", "Philosophy"},
	{"PO", "Political Science"},
	{"PS", "Psychological Brain Sciences"},
	{"PY", "Physics"},
	{"RN", "Religion"},
	{"SO", "Sociology"},
	{"WR", "Writing"},
	{"WS", "Women Gender Sexuality Studies"},
	{"LF", "French"},
	{"LG", "German"},
	{"LI", "Italian"},
	{"LS", "Spanish"},
	{"LR", "Russian"},
	{"LY", "Arabic"},
	{"LC", "Chinese"},
	{"LJ", "Japanese"},
	{"LK", "Korean"},
	{"AC", "Accounting"},
	{"BA", "Business Administration"},
	{"BE", "Biomedical Engineering"},
	{"BF", "Bioinformatics"},
	{"DS", "Data Science"},
	{"FT", "Film Television"},
	{"JO", "Journalism"},
}

// shorthand aliases, lowercase.
var shorthand = []struct {
	alias string
	codes []string
}{
	{"math", []string{"MA"}},
	{"mathematics", []string{"MA"}},
	{"stats", []string{"MA"}},
	{"statistics", []string{"MA"}},
	{"computer", []string{"CS"}},
	{"computer science", []string{"CS"}},
	{"physics", []string{"PY"}},
	{"chemistry", []string{"CH"}},
	{"biology", []string{"BI"}},
	{"economics", []string{"EC"}},
	{"econ", []string{"EC"}},
	{"psychology", []string{"PS"}},
	{"psych", []string{"PS"}},
	{"philosophy", []string{"PH"}},
	{"history", []string{"HI"}},
	{"english", []string{"EN"}},
	{"sociology", []string{"SO"}},
	{"anthropology", []string{"AN"}},
	{"political", []string{"PO"}},
	{"polisci", []string{"PO"}},
	{"political science", []string{"PO"}},
	{"music", []string{"MU"}},
	{"writing", []string{"WR"}},
	{"accounting", []string{"AC"}},
	{"finance", []string{"FE"}},
}

var (
	names      = make(map[string]string, len(catalog))
	aliases    = make(map[string][]string)
	aliasOrder []string
)

func init() {
	for _, d := range catalog {
		names[d.code] = d.name
	}
	for _, s := range shorthand {
		addAlias(s.alias, s.codes...)
	}
	for _, d := range catalog {
		preferAlias(strings.ToLower(d.code), d.code)
		preferAlias(normalizeName(d.name), d.code)
	}
}

func addAlias(key string, codes ...string) {
	if _, ok := aliases[key]; !ok {
		aliasOrder = append(aliasOrder, key)
	}
	aliases[key] = append(aliases[key], codes...)
}

// preferAlias registers code under key, moving it to the front when the key
// already resolves to other codes.
func preferAlias(key, code string) {
	if key == "" {
		return
	}
	existing, ok := aliases[key]
	if !ok {
		addAlias(key, code)
		return
	}
	for _, c := range existing {
		if c == code {
			return
		}
	}
	aliases[key] = append([]string{code}, existing...)
}

func normalizeName(name string) string {
	name = strings.NewReplacer("&", " ", ",", " ").Replace(name)
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Name returns the full department name for a code, or the code itself when
// it is unknown.
func Name(code string) string {
	if name, ok := names[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// Codes returns all known department codes in catalog order.
func Codes() []string {
	codes := make([]string, len(catalog))
	for i, d := range catalog {
		codes[i] = d.code
	}
	return codes
}

// Resolve reports whether query, or its first token, names a department.
// It returns the matching subject codes and whatever part of the query is left
// over. Resolution order is exact alias, exact code, longest alias the query
// is a prefix of (or a multi-word alias the query extends), then the first
// token as an alias or code.
//
//	Resolve("math")           -> [MA], ""
//	Resolve("History of Art") -> [AH], ""
//	Resolve("CS 111")         -> [CS], "111"
func Resolve(query string) ([]string, string, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, "", false
	}
	lower := strings.ToLower(q)

	if codes, ok := aliases[lower]; ok {
		return clone(codes), "", true
	}
	if _, ok := names[strings.ToUpper(q)]; ok {
		return []string{strings.ToUpper(q)}, "", true
	}

	best := ""
	for _, key := range aliasOrder {
		matched := strings.HasPrefix(key, lower) ||
			(strings.Contains(key, " ") && strings.HasPrefix(lower, key))
		if matched && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return clone(aliases[best]), "", true
	}

	parts := strings.Fields(q)
	first := parts[0]
	rest := strings.TrimSpace(strings.Join(parts[1:], " "))
	if codes, ok := aliases[strings.ToLower(first)]; ok {
		return clone(codes), rest, true
	}
	if _, ok := names[strings.ToUpper(first)]; ok {
		return []string{strings.ToUpper(first)}, rest, true
	}
	return nil, "", false
}

// Suggest returns up to limit alias keys that fuzzily match query, best first.
func Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(query, aliasOrder)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

func clone(codes []string) []string {
	return append([]string(nil), codes...)
}
