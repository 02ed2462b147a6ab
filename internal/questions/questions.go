// Package questions holds the film quote catalog and turns it into
// multiple-choice quiz questions.
package questions

import (
	"errors"
	"strings"
)

// OptionCount is the number of choices offered per question.
const OptionCount = 4

var ErrNotEnoughQuestions = errors.New("not enough quotes to build a quiz")

// Pair links a quote to the film it comes from.
type Pair struct {
	ID    string
	Film  string
	Quote string
}

// Catalog is an ordered, read-only collection of pairs.
type Catalog []Pair

// Titles returns the distinct film titles in catalog order.
func (c Catalog) Titles() []string {
	seen := make(map[string]bool, len(c))
	titles := make([]string, 0, len(c))
	for _, p := range c {
		if seen[p.Film] {
			continue
		}
		seen[p.Film] = true
		titles = append(titles, p.Film)
	}
	return titles
}

type Question struct {
	ID      string
	Text    string
	Answer  string
	Options []string
}

// Matches reports whether answer names the correct film, ignoring case and
// surrounding whitespace.
func (q Question) Matches(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.Answer))
}

// Rand is the randomness needed to build a quiz. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Build draws up to n distinct pairs in random order and turns each into a
// question with three distractor titles. A catalog smaller than n yields
// fewer questions.
func Build(c Catalog, n int, rng Rand) ([]Question, error) {
	titles := c.Titles()
	if len(c) == 0 || n <= 0 || len(titles) < OptionCount {
		return nil, ErrNotEnoughQuestions
	}

	pairs := make([]Pair, len(c))
	copy(pairs, c)
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	if len(pairs) > n {
		pairs = pairs[:n]
	}

	out := make([]Question, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Question{
			ID:      p.ID,
			Text:    p.Quote,
			Answer:  p.Film,
			Options: options(p.Film, titles, rng),
		})
	}
	return out, nil
}

func options(correct string, titles []string, rng Rand) []string {
	pool := make([]string, 0, len(titles))
	for _, t := range titles {
		if t != correct {
			pool = append(pool, t)
		}
	}

	// partial Fisher-Yates: the first OptionCount-1 slots end up uniform
	for i := 0; i < OptionCount-1; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	opts := make([]string, 0, OptionCount)
	opts = append(opts, correct)
	opts = append(opts, pool[:OptionCount-1]...)
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
