package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"patchwork/internal/ports"
)

// ScorecardSigner issues HS256 tokens vouching for a finished game's standings.
type ScorecardSigner struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var ErrScorecardInvalid = errors.New("scorecard is invalid")

// NewScorecardSigner returns a signer. A zero ttl uses DefaultScorecardTTL.
func NewScorecardSigner(secret, issuer string, ttl time.Duration) *ScorecardSigner {
	if ttl <= 0 {
		ttl = DefaultScorecardTTL
	}
	return &ScorecardSigner{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}
}

// Scorecard is the verified content of a signed token.
type Scorecard struct {
	GameID string
	Winner int
	Turns  int
	Totals []int // by seat
}

// Sign encodes the result's winner and per-seat totals.
func (s *ScorecardSigner) Sign(result ports.GameResult) (string, error) {
	if s == nil {
		return "", fmt.Errorf("scorecard signer is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("scorecard config is incomplete")
	}
	if result.GameID == "" {
		return "", fmt.Errorf("game id is required")
	}

	totals := make([]int, result.Players)
	for _, score := range result.Standings {
		if score.Seat < 0 || score.Seat >= len(totals) {
			return "", fmt.Errorf("seat %d outside %d players", score.Seat, result.Players)
		}
		totals[score.Seat] = score.Total
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":    s.issuer,
		"sub":    result.GameID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
		"winner": result.Winner,
		"turns":  result.Turns,
		"totals": totals,
	}
	if result.CatalogDigest != "" {
		claims["catalog"] = result.CatalogDigest
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, issuer and expiry and decodes the scorecard.
func (s *ScorecardSigner) Verify(tokenString string) (Scorecard, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Scorecard{}, fmt.Errorf("%w: %v", ErrScorecardInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Scorecard{}, ErrScorecardInvalid
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Scorecard{}, fmt.Errorf("%w: issuer %v", ErrScorecardInvalid, claims["iss"])
	}

	card := Scorecard{}
	card.GameID, _ = claims["sub"].(string)
	card.Winner = intClaim(claims["winner"])
	card.Turns = intClaim(claims["turns"])
	if raw, ok := claims["totals"].([]interface{}); ok {
		for _, v := range raw {
			card.Totals = append(card.Totals, intClaim(v))
		}
	}
	return card, nil
}

// JSON numbers decode as float64.
func intClaim(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}
