package game_constants

// MinPlayersToStart is the number of joined players required before a round can begin
const MinPlayersToStart = 3

// MinDeckSizeToJoin is the minimum number of answer cards that must remain in the
// deck to admit another player
const MinDeckSizeToJoin = 3

const DefaultHandSize = 6
const DefaultRoundSeconds = 60
const DefaultPartyTTLMinutes = 60

// MaxCardTextLength caps the text of user card submissions
const MaxCardTextLength = 500

// Length of generated party codes
const PartyCodeLength = 6
