package utils

import (
	"strings"

	game_constants "cardparty/constants/game"
	"cardparty/models/cards"
)

// ValidateCardSubmission checks a user card submission and returns a
// human-readable reason when it is unacceptable.
func ValidateCardSubmission(text string, cardType string) (reason string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "card text must not be empty", false
	}
	if len(trimmed) > game_constants.MaxCardTextLength {
		return "card text is too long", false
	}
	if !cards.CardType(cardType).IsValid() {
		return "card type must be 'prompt' or 'answer'", false
	}
	return "", true
}
