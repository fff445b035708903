package votes

type VoteType string

const (
	VoteUp        VoteType = "up"
	VoteDown      VoteType = "down"
	VoteDuplicate VoteType = "duplicate"
)

// AllVoteTypes lists every vote type, in the order the ledger stores them.
var AllVoteTypes = []VoteType{VoteUp, VoteDown, VoteDuplicate}

func (v VoteType) IsValid() bool {
	return v == VoteUp || v == VoteDown || v == VoteDuplicate
}

// VoteStats is the denormalized aggregate for one card. NetScore is always
// Upvotes - Downvotes.
type VoteStats struct {
	Upvotes        int `json:"upvotes"`
	Downvotes      int `json:"downvotes"`
	DuplicateFlags int `json:"duplicate_flags"`
	NetScore       int `json:"net_score"`
}
