package handler

import "strings"

// Smart quotes pasted from Slack clients count as plain double quotes.
var quoteNormalizer = strings.NewReplacer("“", `"`, "”", `"`)

// ParseCommand tokenizes command text. Words split on whitespace, but a
// run of words enclosed in double quotes collapses into a single token
// with its interior spacing reduced to single spaces. There is no
// escaping. An unterminated opening quote swallows the rest of the
// input into the last token. The result is best-effort and never an
// error; callers must check token counts before indexing.
func ParseCommand(text string) []string {
	text = quoteNormalizer.Replace(text)

	var tokens []string
	inQuote := false
	for _, word := range strings.Fields(text) {
		switch {
		case len(word) > 1 && strings.HasPrefix(word, `"`) && strings.HasSuffix(word, `"`):
			tokens = append(tokens, word[1:len(word)-1])
		case strings.HasPrefix(word, `"`):
			inQuote = true
			tokens = append(tokens, word[1:])
		case strings.HasSuffix(word, `"`):
			word = word[:len(word)-1]
			if inQuote && len(tokens) > 0 {
				tokens[len(tokens)-1] += " " + word
			} else {
				tokens = append(tokens, word)
			}
			inQuote = false
		case inQuote && len(tokens) > 0:
			tokens[len(tokens)-1] += " " + word
		default:
			tokens = append(tokens, word)
		}
	}
	return tokens
}
