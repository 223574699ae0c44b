// Package words carries the static fallback word list used when the
// text generator keeps returning words that were already shown.
package words

import (
	_ "embed"
	"math/rand"
	"strings"
)

//go:embed wordlist.txt
var raw string

// Words shorter than this are filtered out at load time; they make for
// trivial scrambles.
const minWordLength = 4

var list = load(raw)

func load(data string) []string {
	lines := strings.Split(data, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.ToLower(strings.TrimSpace(line))
		if len(word) < minWordLength {
			continue
		}
		out = append(out, word)
	}
	return out
}

// Random returns a uniformly chosen word from the fallback list.
func Random() string {
	return list[rand.Intn(len(list))]
}

// Count reports how many fallback words are available.
func Count() int {
	return len(list)
}
