package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

// Catalog keys

func FormatCardKey(cardId int) string {
	return fmt.Sprintf("card:%d", cardId)
}

func FormatCardStatsKey(cardId int) string {
	return fmt.Sprintf("card:%d:stats", cardId)
}

func FormatOfficialSetKey(expansion, cardType string) string {
	return fmt.Sprintf("cards:official:%s:%s", expansion, cardType)
}

func FormatUserQueueKey(status, cardType string) string {
	return fmt.Sprintf("cards:user:%s:%s", status, cardType)
}

const ExpansionsKey = "cards:expansions"
const SeededMarkerKey = "cards:seeded"
const NextCardIdKey = "cards:next_id"

// Vote-ledger keys

func FormatVoteSetKey(cardId int, voteType string) string {
	return fmt.Sprintf("votes:%d:%s", cardId, voteType)
}

func FormatVoteRecordKey(cardId int, sessionId string) string {
	return fmt.Sprintf("votes:%d:record:%s", cardId, sessionId)
}

func FormatVoteStatsKey(cardId int) string {
	return fmt.Sprintf("votes:%d:stats", cardId)
}

const RankByUpvotesKey = "votes:rank:upvotes"
const RankByNetScoreKey = "votes:rank:net"
const RankByControversyKey = "votes:rank:controversy"
const DuplicateFlaggedKey = "votes:flagged"
