package catalog

import (
	"fmt"
	"log"
	"strings"
	"time"

	"cardparty/models/cards"
	redis_utils "cardparty/services/redis/utils"

	goredis "github.com/redis/go-redis/v9"
)

// SubmitUserCard stores a new user-submitted card with status pending and
// indexes it into the time-ordered pending queue for its type. The returned
// card carries the freshly allocated id.
func (s *Service) SubmitUserCard(text string, cardType cards.CardType, numAnswers int) (*cards.Card, error) {
	id, err := s.rc.Client.Incr(s.rc.Ctx, redis_utils.NextCardIdKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error allocating card id: %v", err)
	}

	card := cards.Card{
		ID:         int(id),
		CardType:   cardType,
		Text:       text,
		NumAnswers: numAnswers,
		Expansion:  cards.UserExpansion,
		Status:     cards.StatusPending,
		CreatedAt:  time.Now().Unix(),
	}

	pipe := s.rc.Client.Pipeline()
	pipe.HSet(s.rc.Ctx, redis_utils.FormatCardKey(card.ID), cardToHash(card))
	pipe.ZAdd(s.rc.Ctx, redis_utils.FormatUserQueueKey(string(cards.StatusPending), string(cardType)),
		goredis.Z{Score: float64(card.CreatedAt), Member: card.ID})
	if _, err := pipe.Exec(s.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error storing user card: %v", err)
	}

	log.Printf("[CATALOG] User card %d submitted (%s)", card.ID, cardType)
	return &card, nil
}

// PendingCards returns the pending user cards of one type, oldest first.
func (s *Service) PendingCards(cardType cards.CardType) ([]cards.Card, error) {
	key := redis_utils.FormatUserQueueKey(string(cards.StatusPending), string(cardType))
	ids, err := s.rc.Client.ZRange(s.rc.Ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading pending queue: %v", err)
	}
	return s.hydrateCards(ids)
}

// ApproveUserCard moves a pending user card into the approved queue, stamping
// the moderator and timestamp.
func (s *Service) ApproveUserCard(cardId int, moderator string) error {
	return s.moderateUserCard(cardId, moderator, cards.StatusApproved)
}

// RejectUserCard moves a pending user card into the rejected queue, stamping
// the moderator and timestamp.
func (s *Service) RejectUserCard(cardId int, moderator string) error {
	return s.moderateUserCard(cardId, moderator, cards.StatusRejected)
}

func (s *Service) moderateUserCard(cardId int, moderator string, newStatus cards.CardStatus) error {
	card, err := s.GetCard(cardId)
	if err != nil {
		return err
	}
	if card.Expansion != cards.UserExpansion {
		return ErrCardNotFound
	}

	now := time.Now().Unix()
	pipe := s.rc.Client.TxPipeline()
	pipe.ZRem(s.rc.Ctx, redis_utils.FormatUserQueueKey(string(card.Status), string(card.CardType)), cardId)
	pipe.ZAdd(s.rc.Ctx, redis_utils.FormatUserQueueKey(string(newStatus), string(card.CardType)),
		goredis.Z{Score: float64(now), Member: cardId})
	pipe.HSet(s.rc.Ctx, redis_utils.FormatCardKey(cardId), map[string]interface{}{
		"status":       string(newStatus),
		"moderated_by": moderator,
		"moderated_at": now,
	})
	if _, err := pipe.Exec(s.rc.Ctx); err != nil {
		return fmt.Errorf("error moderating card %d: %v", cardId, err)
	}

	log.Printf("[CATALOG] Card %d %s by %s", cardId, newStatus, moderator)
	return nil
}

// CheckForDuplicate scans every official expansion partition and every
// user-card status queue of the given type for a card whose normalized text
// matches. It returns nil when there is no match, and deliberately fails open
// (returns nil) on lookup errors so store trouble never blocks submissions.
func (s *Service) CheckForDuplicate(text string, cardType cards.CardType) *cards.DuplicateMatch {
	normalized := NormalizeCardText(text)

	expansions, err := s.rc.Client.SMembers(s.rc.Ctx, redis_utils.ExpansionsKey).Result()
	if err != nil {
		log.Printf("[CATALOG-ERROR] Duplicate check failed open (expansions): %v", err)
		return nil
	}
	for _, expansion := range expansions {
		ids, err := s.rc.Client.SMembers(s.rc.Ctx,
			redis_utils.FormatOfficialSetKey(expansion, string(cardType))).Result()
		if err != nil {
			log.Printf("[CATALOG-ERROR] Duplicate check failed open (partition %s): %v", expansion, err)
			return nil
		}
		if match := s.scanIdsForText(ids, normalized, "official"); match != nil {
			return match
		}
	}

	for _, status := range []cards.CardStatus{cards.StatusPending, cards.StatusApproved, cards.StatusRejected} {
		ids, err := s.rc.Client.ZRange(s.rc.Ctx,
			redis_utils.FormatUserQueueKey(string(status), string(cardType)), 0, -1).Result()
		if err != nil {
			log.Printf("[CATALOG-ERROR] Duplicate check failed open (%s queue): %v", status, err)
			return nil
		}
		if match := s.scanIdsForText(ids, normalized, string(status)); match != nil {
			return match
		}
	}

	return nil
}

func (s *Service) scanIdsForText(ids []string, normalized, source string) *cards.DuplicateMatch {
	if len(ids) == 0 {
		return nil
	}
	pipe := s.rc.Client.Pipeline()
	cmds := make([]*goredis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGet(s.rc.Ctx, "card:"+id, "text")
	}
	if _, err := pipe.Exec(s.rc.Ctx); err != nil && err != goredis.Nil {
		log.Printf("[CATALOG-ERROR] Duplicate check failed open (texts): %v", err)
		return nil
	}
	for i, cmd := range cmds {
		if cmd.Err() != nil {
			continue
		}
		if NormalizeCardText(cmd.Val()) == normalized {
			return &cards.DuplicateMatch{
				ID:     atoi(ids[i]),
				Text:   cmd.Val(),
				Source: source,
			}
		}
	}
	return nil
}

// NormalizeCardText lowercases, trims, collapses internal whitespace, and
// strips trailing sentence punctuation, so that "Test Card", "test   card"
// and "Test Card." all compare equal.
func NormalizeCardText(text string) string {
	lowered := strings.ToLower(text)
	collapsed := strings.Join(strings.Fields(lowered), " ")
	return strings.TrimSpace(strings.TrimRight(collapsed, ".!?"))
}
