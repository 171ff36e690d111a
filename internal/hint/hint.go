package hint

import (
	"math"
	"strings"
)

// revealFraction is the share of a word's letters that may ever be
// disclosed through timed hints.
const revealFraction = 0.4

// PositionShuffler supplies the randomized ordering of letter positions.
type PositionShuffler interface {
	Perm(n int) []int
}

// Engine derives masked hint strings from a word and a precomputed
// reveal order.
type Engine struct {
	shuffler PositionShuffler
}

// New creates a hint engine
func New(shuffler PositionShuffler) *Engine {
	return &Engine{shuffler: shuffler}
}

// RevealOrder picks the letter positions eligible for progressive reveal:
// the positions of all non-space characters, shuffled, truncated to 40%
// of their count rounded up, never fewer than one.
func (e *Engine) RevealOrder(word string) []int {
	runes := []rune(word)

	letters := make([]int, 0, len(runes))
	for i, r := range runes {
		if r != ' ' {
			letters = append(letters, i)
		}
	}
	if len(letters) == 0 {
		return nil
	}

	keep := int(math.Ceil(float64(len(letters)) * revealFraction))
	if keep < 1 {
		keep = 1
	}

	order := make([]int, 0, keep)
	for _, idx := range e.shuffler.Perm(len(letters)) {
		order = append(order, letters[idx])
		if len(order) == keep {
			break
		}
	}
	return order
}

// Render produces the hint string with the first reveals positions of the
// order shown. Hidden letters render as underscores, spaces as a double
// space so word boundaries stay visible, all joined by single spaces.
func Render(word string, order []int, reveals int) string {
	if reveals < 0 {
		reveals = 0
	}
	if reveals > len(order) {
		reveals = len(order)
	}

	shown := make(map[int]bool, reveals)
	for _, pos := range order[:reveals] {
		shown[pos] = true
	}

	runes := []rune(word)
	cells := make([]string, len(runes))
	for i, r := range runes {
		switch {
		case r == ' ':
			cells[i] = "  "
		case shown[i]:
			cells[i] = string(r)
		default:
			cells[i] = "_"
		}
	}
	return strings.Join(cells, " ")
}

// Blank renders the fully masked hint for a word
func Blank(word string) string {
	return Render(word, nil, 0)
}
