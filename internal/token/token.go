// Package token mints participant access tokens for the realtime voice
// server. Tokens follow the LiveKit access-token shape: HS256 JWTs with the
// API key as issuer, the participant identity as subject, and a video grant
// naming the room to join.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoCredentials is returned when the minter has no API key/secret pair.
var ErrNoCredentials = errors.New("realtime credentials not configured")

const defaultTTL = 15 * time.Minute

// VideoGrant is the room permission block embedded in the token.
type VideoGrant struct {
	Room           string `json:"room,omitempty"`
	RoomJoin       bool   `json:"roomJoin,omitempty"`
	CanSubscribe   bool   `json:"canSubscribe,omitempty"`
	CanPublish     bool   `json:"canPublish,omitempty"`
	CanPublishData bool   `json:"canPublishData,omitempty"`
}

type claims struct {
	Name  string     `json:"name,omitempty"`
	Video VideoGrant `json:"video"`
	jwt.RegisteredClaims
}

// Minter issues access tokens signed with a realtime API key/secret pair.
type Minter struct {
	apiKey    string
	apiSecret []byte
	ttl       time.Duration
}

// NewMinter creates a Minter. ttl <= 0 uses the default.
func NewMinter(apiKey, apiSecret string, ttl time.Duration) *Minter {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Minter{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		ttl:       ttl,
	}
}

// Configured reports whether the minter holds a usable credential pair.
// A token must never be signed with an empty secret.
func (m *Minter) Configured() bool {
	return m != nil && m.apiKey != "" && len(m.apiSecret) > 0
}

// Mint creates a signed participant token granting join access to room.
func (m *Minter) Mint(room, identity, name string) (string, error) {
	if !m.Configured() {
		return "", ErrNoCredentials
	}

	now := time.Now()
	c := claims{
		Name: name,
		Video: VideoGrant{
			Room:           room,
			RoomJoin:       true,
			CanSubscribe:   true,
			CanPublish:     true,
			CanPublishData: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(m.apiSecret)
	if err != nil {
		return "", fmt.Errorf("sign participant token: %w", err)
	}
	return signed, nil
}

// RandomRoom returns a fresh room name for a demo session.
func RandomRoom() string {
	return "room_" + randomSuffix()
}

// RandomIdentity returns a fresh participant identity for a demo session.
func RandomIdentity() string {
	return "voice_user_" + randomSuffix()
}

func randomSuffix() string {
	var b [4]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
