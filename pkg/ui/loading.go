package ui

import "math/rand/v2"

const initialPhrase = "Translating..."

// LoadingIndicator picks the phrase shown while a rewrite is in flight.
type LoadingIndicator struct {
	phrases []string
	current string
	intn    func(n int) int
}

func NewLoadingIndicator(phrases []string) *LoadingIndicator {
	return &LoadingIndicator{
		phrases: phrases,
		current: initialPhrase,
		intn:    rand.IntN,
	}
}

// Reroll chooses a new random phrase. It is called every time loading turns
// on, not on every render.
func (l *LoadingIndicator) Reroll() string {
	if len(l.phrases) > 0 {
		l.current = l.phrases[l.intn(len(l.phrases))]
	}
	return l.current
}

func (l *LoadingIndicator) Phrase() string {
	return l.current
}
