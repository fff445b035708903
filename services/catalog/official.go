package catalog

import "cardparty/models/cards"

// OfficialCards is the embedded official corpus. It is the seed source for
// SeedOfficialCards and doubles as the static fallback deck served when the
// store is unreachable.
func OfficialCards() []cards.Card {
	return officialCorpus
}

func fallbackCards(expansion string, cardType cards.CardType, numAnswers int) []cards.Card {
	deck := make([]cards.Card, 0, len(officialCorpus))
	for _, card := range officialCorpus {
		if card.Expansion != expansion || card.CardType != cardType {
			continue
		}
		if cardType == cards.TypePrompt && numAnswers > 0 && card.NumAnswers != numAnswers {
			continue
		}
		deck = append(deck, card)
	}
	return deck
}

var officialCorpus = buildCorpus()

func buildCorpus() []cards.Card {
	answers := []string{
		"A robot that only speaks in riddles.",
		"An alarmingly confident mime.",
		"The world's smallest violin.",
		"A suspicious amount of glitter.",
		"Grandma's secret recipe.",
		"A llama in a business suit.",
		"Interpretive dance.",
		"The last slice of pizza.",
		"An unsolicited PowerPoint presentation.",
		"A haunted vending machine.",
		"Aggressive jazz hands.",
		"The office printer, finally seeking revenge.",
		"A motivational poster about synergy.",
		"Twelve raccoons in a trench coat.",
		"An expired coupon for happiness.",
		"The sound of dial-up internet.",
		"A decorative bowl of wax fruit.",
		"Someone else's half-finished crossword.",
		"A dramatic slow-motion walk.",
		"The group project member who vanished.",
		"A very polite heist.",
		"Karaoke at maximum volume.",
		"An inspirational quote taken wildly out of context.",
		"The fourth cup of coffee.",
		"A pigeon with strong opinions.",
		"Mildly threatening origami.",
		"The elevator music that never ends.",
		"A sock puppet with a law degree.",
		"An overly enthusiastic tour guide.",
		"The mysterious leftovers in the break room fridge.",
		"A trampoline at a formal dinner.",
		"Unexpected bagpipes.",
		"The committee that decides these things.",
		"A suspiciously cheap parachute.",
		"One thousand rubber ducks.",
		"The fine print.",
	}
	prompts := []struct {
		text string
		num  int
	}{
		{"The real reason the meeting ran long: ____.", 1},
		{"My autobiography will be titled '____'.", 1},
		{"Nothing ruins a road trip faster than ____.", 1},
		{"The museum's newest exhibit features ____.", 1},
		{"Step one: ____. Step two: profit.", 1},
		{"I knew the party was over when ____ showed up.", 1},
		{"The secret ingredient is always ____.", 1},
		{"Breaking news: scientists have discovered ____.", 1},
		{"My therapist says I rely too much on ____.", 1},
		{"This year's talent show was won by ____.", 1},
		{"____ and ____: name a more iconic duo.", 2},
		{"First they gave us ____, then they took away ____.", 2},
	}

	corpus := make([]cards.Card, 0, len(answers)+len(prompts))
	id := 1
	for _, text := range answers {
		corpus = append(corpus, cards.Card{
			ID:        id,
			CardType:  cards.TypeAnswer,
			Text:      text,
			Expansion: "Base",
			Status:    cards.StatusOfficial,
		})
		id++
	}
	for _, prompt := range prompts {
		corpus = append(corpus, cards.Card{
			ID:         id,
			CardType:   cards.TypePrompt,
			Text:       prompt.text,
			NumAnswers: prompt.num,
			Expansion:  "Base",
			Status:     cards.StatusOfficial,
		})
		id++
	}
	return corpus
}
