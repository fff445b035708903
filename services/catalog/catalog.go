package catalog

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"

	"cardparty/models/cards"
	"cardparty/services/redis"
	redis_utils "cardparty/services/redis/utils"

	goredis "github.com/redis/go-redis/v9"
)

// ErrCardNotFound is returned when a moderation action targets a card id that
// does not exist or does not belong to a user-submitted card.
var ErrCardNotFound = errors.New("card not found")

// Service owns the card corpus: official cards partitioned by
// (expansion, type), plus user-submitted cards with a pending ->
// approved/rejected lifecycle.
type Service struct {
	rc *redis.RedisClient
}

func NewService(rc *redis.RedisClient) *Service {
	return &Service{rc: rc}
}

// SeedOfficialCards loads the official corpus into Redis. It is idempotent:
// a marker key is checked first and the load is skipped if it is already set.
func (s *Service) SeedOfficialCards(officialCards []cards.Card) error {
	seeded, err := s.rc.Client.Get(s.rc.Ctx, redis_utils.SeededMarkerKey).Result()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("error checking seed marker: %v", err)
	}
	if seeded == "1" {
		log.Println("[CATALOG] Official cards already seeded, skipping")
		return nil
	}

	pipe := s.rc.Client.Pipeline()
	maxId := 0
	for _, card := range officialCards {
		pipe.HSet(s.rc.Ctx, redis_utils.FormatCardKey(card.ID), cardToHash(card))
		pipe.SAdd(s.rc.Ctx, redis_utils.FormatOfficialSetKey(card.Expansion, string(card.CardType)), card.ID)
		pipe.SAdd(s.rc.Ctx, redis_utils.ExpansionsKey, card.Expansion)
		if card.ID > maxId {
			maxId = card.ID
		}
	}
	// Keep the user-card id allocator above every official id
	pipe.Set(s.rc.Ctx, redis_utils.NextCardIdKey, maxId, 0)
	pipe.Set(s.rc.Ctx, redis_utils.SeededMarkerKey, "1", 0)

	if _, err := pipe.Exec(s.rc.Ctx); err != nil {
		return fmt.Errorf("error seeding official cards: %v", err)
	}

	log.Printf("[CATALOG] Seeded %d official cards", len(officialCards))
	return nil
}

// GetShuffledAnswerCards returns a uniformly shuffled copy of the answer cards
// in the given expansion. If Redis is unreachable the embedded fallback deck
// is served instead so games can keep running.
func (s *Service) GetShuffledAnswerCards(expansion string) ([]cards.Card, error) {
	deck, err := s.partitionCards(expansion, cards.TypeAnswer)
	if err != nil {
		log.Printf("[CATALOG-ERROR] Falling back to static answer deck: %v", err)
		deck = fallbackCards(expansion, cards.TypeAnswer, 0)
	}
	shuffle(deck)
	return deck, nil
}

// GetShuffledPromptCards returns a uniformly shuffled copy of the prompt cards
// in the given expansion, filtered by required blank count when numAnswers > 0.
func (s *Service) GetShuffledPromptCards(expansion string, numAnswers int) ([]cards.Card, error) {
	deck, err := s.partitionCards(expansion, cards.TypePrompt)
	if err != nil {
		log.Printf("[CATALOG-ERROR] Falling back to static prompt deck: %v", err)
		deck = fallbackCards(expansion, cards.TypePrompt, numAnswers)
	} else if numAnswers > 0 {
		filtered := deck[:0]
		for _, card := range deck {
			if card.NumAnswers == numAnswers {
				filtered = append(filtered, card)
			}
		}
		deck = filtered
	}
	shuffle(deck)
	return deck, nil
}

// IncrementCardUsed bumps the per-card "used" counter.
func (s *Service) IncrementCardUsed(cardId int) error {
	err := s.rc.Client.HIncrBy(s.rc.Ctx, redis_utils.FormatCardStatsKey(cardId), "used", 1).Err()
	if err != nil {
		return fmt.Errorf("error incrementing used counter for card %d: %v", cardId, err)
	}
	return nil
}

// IncrementCardWon bumps the per-card "won" counter.
func (s *Service) IncrementCardWon(cardId int) error {
	err := s.rc.Client.HIncrBy(s.rc.Ctx, redis_utils.FormatCardStatsKey(cardId), "won", 1).Err()
	if err != nil {
		return fmt.Errorf("error incrementing won counter for card %d: %v", cardId, err)
	}
	return nil
}

// GetCardStats reads the play counters for a card. Missing counters read as 0.
func (s *Service) GetCardStats(cardId int) (*cards.CardStats, error) {
	fields, err := s.rc.Client.HGetAll(s.rc.Ctx, redis_utils.FormatCardStatsKey(cardId)).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading stats for card %d: %v", cardId, err)
	}
	return &cards.CardStats{
		Used: atoi(fields["used"]),
		Won:  atoi(fields["won"]),
	}, nil
}

// GetCard hydrates a single card record. Returns ErrCardNotFound for ids with
// no stored hash.
func (s *Service) GetCard(cardId int) (*cards.Card, error) {
	fields, err := s.rc.Client.HGetAll(s.rc.Ctx, redis_utils.FormatCardKey(cardId)).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading card %d: %v", cardId, err)
	}
	if len(fields) == 0 {
		return nil, ErrCardNotFound
	}
	card := cardFromHash(fields)
	return &card, nil
}

// partitionCards hydrates every card in one (expansion, type) partition.
func (s *Service) partitionCards(expansion string, cardType cards.CardType) ([]cards.Card, error) {
	ids, err := s.rc.Client.SMembers(s.rc.Ctx, redis_utils.FormatOfficialSetKey(expansion, string(cardType))).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading partition %s/%s: %v", expansion, cardType, err)
	}
	return s.hydrateCards(ids)
}

func (s *Service) hydrateCards(ids []string) ([]cards.Card, error) {
	if len(ids) == 0 {
		return []cards.Card{}, nil
	}
	pipe := s.rc.Client.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(s.rc.Ctx, "card:"+id)
	}
	if _, err := pipe.Exec(s.rc.Ctx); err != nil {
		return nil, fmt.Errorf("error hydrating cards: %v", err)
	}
	deck := make([]cards.Card, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		deck = append(deck, cardFromHash(fields))
	}
	return deck, nil
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle(deck []cards.Card) {
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func cardToHash(card cards.Card) map[string]interface{} {
	return map[string]interface{}{
		"id":           card.ID,
		"card_type":    string(card.CardType),
		"text":         card.Text,
		"num_answers":  card.NumAnswers,
		"expansion":    card.Expansion,
		"status":       string(card.Status),
		"created_at":   card.CreatedAt,
		"moderated_by": card.ModeratedBy,
		"moderated_at": card.ModeratedAt,
	}
}

func cardFromHash(fields map[string]string) cards.Card {
	return cards.Card{
		ID:          atoi(fields["id"]),
		CardType:    cards.CardType(fields["card_type"]),
		Text:        fields["text"],
		NumAnswers:  atoi(fields["num_answers"]),
		Expansion:   fields["expansion"],
		Status:      cards.CardStatus(fields["status"]),
		CreatedAt:   atoi64(fields["created_at"]),
		ModeratedBy: fields["moderated_by"],
		ModeratedAt: atoi64(fields["moderated_at"]),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
