package words

import (
	"strings"
	"testing"
)

func TestListIsLoadedAndFiltered(t *testing.T) {
	if Count() == 0 {
		t.Fatal("fallback word list is empty")
	}
	for _, word := range list {
		if len(word) < minWordLength {
			t.Fatalf("word %q is shorter than %d characters", word, minWordLength)
		}
		if word != strings.ToLower(word) {
			t.Fatalf("word %q is not lowercase", word)
		}
		if strings.ContainsAny(word, " \t") {
			t.Fatalf("word %q contains whitespace", word)
		}
	}
}

func TestRandomReturnsListMember(t *testing.T) {
	members := make(map[string]struct{}, len(list))
	for _, word := range list {
		members[word] = struct{}{}
	}
	for i := 0; i < 100; i++ {
		word := Random()
		if _, ok := members[word]; !ok {
			t.Fatalf("Random() returned %q, not in the list", word)
		}
	}
}

func TestLoadDropsShortAndBlankLines(t *testing.T) {
	got := load("cat\n\nhouse\n  \nox\nzebra\n")
	if len(got) != 2 || got[0] != "house" || got[1] != "zebra" {
		t.Fatalf("load filtered incorrectly: %v", got)
	}
}
