// load-words cleans a raw word list for use as the embedded fallback
// list: lowercases, drops words under the minimum length, and dedupes.
package main

import (
	"flag"
	"log"
	"os"
	"sort"
	"strings"
)

func main() {
	inPath := flag.String("in", "wordlist.txt", "path to the raw word list")
	outPath := flag.String("out", "internal/words/wordlist.txt", "path to write the cleaned list")
	minLength := flag.Int("min-length", 4, "minimum word length to keep")
	flag.Parse()

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("failed to read word list: %v", err)
	}

	words := cleanWords(strings.Split(string(raw), "\n"), *minLength)
	if len(words) == 0 {
		log.Fatal("no words survived filtering")
	}

	output := strings.Join(words, "\n") + "\n"
	if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
		log.Fatalf("failed to write word list: %v", err)
	}
	log.Printf("wrote %d words to %s", len(words), *outPath)
}

func cleanWords(lines []string, minLength int) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.ToLower(strings.TrimSpace(line))
		if len(word) < minLength || strings.ContainsAny(word, " \t") {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}
