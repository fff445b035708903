package votes

import (
	"fmt"
	"log"
	"strconv"

	"cardparty/models/votes"
	"cardparty/services/redis"
	redis_utils "cardparty/services/redis/utils"

	goredis "github.com/redis/go-redis/v9"
)

// Ledger records community votes on pending user cards: one vote per
// (card, session) pair, denormalized aggregate stats, three moderation
// ranking indexes and a duplicate-flag membership set.
type Ledger struct {
	rc *redis.RedisClient
}

func NewLedger(rc *redis.RedisClient) *Ledger {
	return &Ledger{rc: rc}
}

// CastVote replaces any existing vote from this session on this card with the
// given type, recomputes the card's aggregate stats and updates the ranking
// indexes. The fresh stats are returned.
func (l *Ledger) CastVote(cardId int, sessionId string, voteType votes.VoteType) (*votes.VoteStats, error) {
	if !voteType.IsValid() {
		return nil, fmt.Errorf("invalid vote type: %s", voteType)
	}

	pipe := l.rc.Client.Pipeline()
	// Remove-then-add keeps the one-vote-per-session invariant
	for _, t := range votes.AllVoteTypes {
		pipe.SRem(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(t)), sessionId)
	}
	pipe.SAdd(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(voteType)), sessionId)
	pipe.Set(l.rc.Ctx, redis_utils.FormatVoteRecordKey(cardId, sessionId), string(voteType), 0)
	if _, err := pipe.Exec(l.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error recording vote on card %d: %v", cardId, err)
	}

	return l.recomputeStats(cardId)
}

// RemoveVote deletes the session's vote on the card, if any, and recomputes
// stats and indexes. Removing a vote that was never cast is not an error.
func (l *Ledger) RemoveVote(cardId int, sessionId string) (*votes.VoteStats, error) {
	pipe := l.rc.Client.Pipeline()
	for _, t := range votes.AllVoteTypes {
		pipe.SRem(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(t)), sessionId)
	}
	pipe.Del(l.rc.Ctx, redis_utils.FormatVoteRecordKey(cardId, sessionId))
	if _, err := pipe.Exec(l.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error removing vote on card %d: %v", cardId, err)
	}

	return l.recomputeStats(cardId)
}

// GetVoteStats reads the denormalized stats record for a card. If it was never
// computed, the stats are rebuilt from the raw per-type sets (self-healing).
// The rebuild here is read-only: a read after CleanupVoteData must not write
// the card back into the stats record or the ranking indexes.
func (l *Ledger) GetVoteStats(cardId int) (*votes.VoteStats, error) {
	fields, err := l.rc.Client.HGetAll(l.rc.Ctx, redis_utils.FormatVoteStatsKey(cardId)).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading vote stats for card %d: %v", cardId, err)
	}
	if len(fields) == 0 {
		return l.countStats(cardId)
	}
	return statsFromHash(fields), nil
}

// GetBulkVoteStats is the batched stats lookup. Cards with no recorded stats
// map to the zero-value VoteStats, never an error.
func (l *Ledger) GetBulkVoteStats(cardIds []int) (map[int]*votes.VoteStats, error) {
	result := make(map[int]*votes.VoteStats, len(cardIds))
	if len(cardIds) == 0 {
		return result, nil
	}

	pipe := l.rc.Client.Pipeline()
	cmds := make(map[int]*goredis.MapStringStringCmd, len(cardIds))
	for _, id := range cardIds {
		cmds[id] = pipe.HGetAll(l.rc.Ctx, redis_utils.FormatVoteStatsKey(id))
	}
	if _, err := pipe.Exec(l.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error reading bulk vote stats: %v", err)
	}

	for id, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			result[id] = &votes.VoteStats{}
			continue
		}
		result[id] = statsFromHash(fields)
	}
	return result, nil
}

// CleanupVoteData tears down every vote record for a card after moderation.
// The whole batch runs as one MULTI/EXEC so a crash cannot leave ranking-index
// entries pointing at a card with no vote data.
func (l *Ledger) CleanupVoteData(cardId int) error {
	// Gather per-session record keys before the atomic teardown
	sessions := make(map[string]struct{})
	for _, t := range votes.AllVoteTypes {
		members, err := l.rc.Client.SMembers(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(t))).Result()
		if err != nil {
			return fmt.Errorf("error listing voters for card %d: %v", cardId, err)
		}
		for _, sessionId := range members {
			sessions[sessionId] = struct{}{}
		}
	}

	pipe := l.rc.Client.TxPipeline()
	for _, t := range votes.AllVoteTypes {
		pipe.Del(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(t)))
	}
	for sessionId := range sessions {
		pipe.Del(l.rc.Ctx, redis_utils.FormatVoteRecordKey(cardId, sessionId))
	}
	pipe.Del(l.rc.Ctx, redis_utils.FormatVoteStatsKey(cardId))
	pipe.ZRem(l.rc.Ctx, redis_utils.RankByUpvotesKey, cardId)
	pipe.ZRem(l.rc.Ctx, redis_utils.RankByNetScoreKey, cardId)
	pipe.ZRem(l.rc.Ctx, redis_utils.RankByControversyKey, cardId)
	pipe.SRem(l.rc.Ctx, redis_utils.DuplicateFlaggedKey, cardId)
	if _, err := pipe.Exec(l.rc.Ctx); err != nil {
		return fmt.Errorf("error cleaning up vote data for card %d: %v", cardId, err)
	}

	log.Printf("[VOTES] Vote data for card %d cleaned up", cardId)
	return nil
}

// countStats tallies the raw per-type sets without writing anything back.
func (l *Ledger) countStats(cardId int) (*votes.VoteStats, error) {
	pipe := l.rc.Client.Pipeline()
	upCmd := pipe.SCard(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(votes.VoteUp)))
	downCmd := pipe.SCard(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(votes.VoteDown)))
	dupCmd := pipe.SCard(l.rc.Ctx, redis_utils.FormatVoteSetKey(cardId, string(votes.VoteDuplicate)))
	if _, err := pipe.Exec(l.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error counting votes for card %d: %v", cardId, err)
	}

	stats := &votes.VoteStats{
		Upvotes:        int(upCmd.Val()),
		Downvotes:      int(downCmd.Val()),
		DuplicateFlags: int(dupCmd.Val()),
	}
	stats.NetScore = stats.Upvotes - stats.Downvotes
	return stats, nil
}

// recomputeStats rebuilds the denormalized stats from the raw per-type sets
// and rewrites the stats record, the three ranking indexes and the
// duplicate-flag membership. Only vote mutations use it; reads go through
// countStats.
func (l *Ledger) recomputeStats(cardId int) (*votes.VoteStats, error) {
	stats, err := l.countStats(cardId)
	if err != nil {
		return nil, err
	}

	write := l.rc.Client.Pipeline()
	write.HSet(l.rc.Ctx, redis_utils.FormatVoteStatsKey(cardId), map[string]interface{}{
		"upvotes":         stats.Upvotes,
		"downvotes":       stats.Downvotes,
		"duplicate_flags": stats.DuplicateFlags,
		"net_score":       stats.NetScore,
	})
	write.ZAdd(l.rc.Ctx, redis_utils.RankByUpvotesKey, goredis.Z{Score: float64(stats.Upvotes), Member: cardId})
	write.ZAdd(l.rc.Ctx, redis_utils.RankByNetScoreKey, goredis.Z{Score: float64(stats.NetScore), Member: cardId})
	write.ZAdd(l.rc.Ctx, redis_utils.RankByControversyKey,
		goredis.Z{Score: float64(stats.Upvotes + stats.Downvotes), Member: cardId})
	if stats.DuplicateFlags > 0 {
		write.SAdd(l.rc.Ctx, redis_utils.DuplicateFlaggedKey, cardId)
	} else {
		write.SRem(l.rc.Ctx, redis_utils.DuplicateFlaggedKey, cardId)
	}
	if _, err := write.Exec(l.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error writing vote stats for card %d: %v", cardId, err)
	}

	return stats, nil
}

func statsFromHash(fields map[string]string) *votes.VoteStats {
	return &votes.VoteStats{
		Upvotes:        atoi(fields["upvotes"]),
		Downvotes:      atoi(fields["downvotes"]),
		DuplicateFlags: atoi(fields["duplicate_flags"]),
		NetScore:       atoi(fields["net_score"]),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
