// Package puzzle holds the guessing logic for a single round: the
// scrambled presentation of a solution and the per-character diff of a
// player's guess against it.
package puzzle

import (
	"math/rand"
	"strings"
)

// Scramble shuffles the characters of each whitespace-delimited token
// independently and rejoins the tokens with single spaces. A
// single-character token may shuffle to itself.
func Scramble(phrase string) string {
	tokens := strings.Fields(phrase)
	for i, token := range tokens {
		tokens[i] = scrambleToken(token)
	}
	return strings.Join(tokens, " ")
}

func scrambleToken(token string) string {
	chars := []rune(token)
	// Fisher-Yates over the runes.
	for i := len(chars) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

// CheckGuess reports whether guess equals solution exactly, and when it
// does not, the positions at which they differ. Comparison is
// case-sensitive. Positions past the end of the solution count as
// mismatches regardless of content; a guess that is a strict prefix of
// the solution yields no mismatch positions.
func CheckGuess(solution, guess string) (bool, []int) {
	if guess == solution {
		return true, nil
	}
	return false, Mismatches(solution, guess)
}

// Mismatches compares guess and solution position by position up to the
// shorter length, then marks every trailing guess position beyond the
// solution's length.
func Mismatches(solution, guess string) []int {
	solutionChars := []rune(solution)
	guessChars := []rune(guess)

	minLength := len(solutionChars)
	if len(guessChars) < minLength {
		minLength = len(guessChars)
	}

	mismatches := make([]int, 0)
	for i := 0; i < minLength; i++ {
		if solutionChars[i] != guessChars[i] {
			mismatches = append(mismatches, i)
		}
	}
	for i := minLength; i < len(guessChars); i++ {
		mismatches = append(mismatches, i)
	}
	return mismatches
}
