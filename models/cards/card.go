package cards

type CardType string

const (
	TypeAnswer CardType = "answer"
	TypePrompt CardType = "prompt"
)

// IsValid reports whether t is one of the two known card types.
func (t CardType) IsValid() bool {
	return t == TypeAnswer || t == TypePrompt
}

// CardStatus is the lifecycle state of a card. Official cards are always
// "official"; user-submitted cards move pending -> approved | rejected.
type CardStatus string

const (
	StatusOfficial CardStatus = "official"
	StatusPending  CardStatus = "pending"
	StatusApproved CardStatus = "approved"
	StatusRejected CardStatus = "rejected"
)

// UserExpansion is the expansion name reserved for user-submitted cards.
const UserExpansion = "user-submitted"

// Card is a single prompt or answer card.
type Card struct {
	ID          int        `json:"id"`
	CardType    CardType   `json:"card_type"`
	Text        string     `json:"text"`
	NumAnswers  int        `json:"num_answers,omitempty"` // prompt cards only: blanks to fill
	Expansion   string     `json:"expansion"`
	Status      CardStatus `json:"status,omitempty"`
	CreatedAt   int64      `json:"created_at,omitempty"` // unix seconds
	ModeratedBy string     `json:"moderated_by,omitempty"`
	ModeratedAt int64      `json:"moderated_at,omitempty"`
}

// DuplicateMatch describes an existing card whose normalized text matches a
// candidate submission. Source is "official" for catalog cards, otherwise the
// user-card status the match was found under.
type DuplicateMatch struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// CardStats are the per-card play counters kept by the catalog.
type CardStats struct {
	Used int `json:"used"`
	Won  int `json:"won"`
}
