// Package schemas defines the external request/response shapes for game
// session submission, independent of how sessions are stored.
package schemas

import (
	"fmt"
	"strings"
	"time"

	"snake-analytics/models"

	"gorm.io/datatypes"
)

// Position is one snake-head coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameSessionBase is the field set shared by every game session shape.
type GameSessionBase struct {
	Timestamp         int64                 `json:"timestamp"` // ms since epoch
	Score             int                   `json:"score"`
	GameTime          int                   `json:"game_time"` // seconds
	Difficulty        models.Difficulty     `json:"difficulty"`
	SnakeLength       int                   `json:"snake_length"`
	MovementPattern   []Position            `json:"movement_pattern"`
	CollisionType     *models.CollisionType `json:"collision_type,omitempty"`
	PowerUpsCollected int                   `json:"power_ups_collected"`
	BoardSize         int                   `json:"board_size"`
}

// GameSessionCreate is the submission payload.
type GameSessionCreate struct {
	GameSessionBase
	UserID *string `json:"user_id,omitempty"`
}

// DecodeGameSessionCreate parses and validates a submission body. On failure
// the error is a ValidationErrors naming every rejected field.
func DecodeGameSessionCreate(body []byte) (*GameSessionCreate, error) {
	var errs ValidationErrors
	obj, ok := parseObject(body, "", &errs)
	if !ok {
		return nil, errs
	}

	in := &GameSessionCreate{}
	in.Timestamp = obj.requiredInt("timestamp")
	in.Score = obj.nonNegativeInt("score")
	in.GameTime = obj.nonNegativeInt("game_time")

	if s, ok := obj.requiredString("difficulty"); ok {
		d, err := models.ParseDifficulty(s)
		if err != nil {
			errs.add("difficulty", "must be one of %s", enumList(models.Difficulties))
		}
		in.Difficulty = d
	}

	in.SnakeLength = obj.nonNegativeInt("snake_length")
	in.MovementPattern = decodeMovementPattern(obj)

	if s, ok := obj.optionalString("collision_type"); ok && s != nil {
		c, err := models.ParseCollisionType(*s)
		if err != nil {
			errs.add("collision_type", "must be one of %s", enumList(models.CollisionTypes))
		} else {
			in.CollisionType = &c
		}
	}

	in.PowerUpsCollected = obj.nonNegativeInt("power_ups_collected")
	in.BoardSize = obj.nonNegativeInt("board_size")

	if s, ok := obj.optionalString("user_id"); ok {
		in.UserID = s
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return in, nil
}

func decodeMovementPattern(obj *object) []Position {
	items, ok := obj.requiredArray("movement_pattern")
	if !ok {
		return nil
	}
	out := make([]Position, 0, len(items))
	for i, item := range items {
		p, ok := parseObject(item, fmt.Sprintf("movement_pattern[%d]", i), obj.errs)
		if !ok {
			continue
		}
		out = append(out, Position{
			X: int(p.requiredInt("x")),
			Y: int(p.requiredInt("y")),
		})
	}
	return out
}

// ToModel builds the row to persist. The model's id is left for the storage
// hook to assign.
func (in *GameSessionCreate) ToModel() *models.GameSession {
	pattern := make(datatypes.JSONSlice[models.Position], len(in.MovementPattern))
	for i, p := range in.MovementPattern {
		pattern[i] = models.Position{X: p.X, Y: p.Y}
	}
	return &models.GameSession{
		UserID:            in.UserID,
		Timestamp:         time.UnixMilli(in.Timestamp).UTC(),
		Score:             in.Score,
		GameTime:          in.GameTime,
		Difficulty:        in.Difficulty,
		SnakeLength:       in.SnakeLength,
		MovementPattern:   pattern,
		CollisionType:     in.CollisionType,
		PowerUpsCollected: in.PowerUpsCollected,
		BoardSize:         in.BoardSize,
	}
}

// GameSessionInDB is the read shape of a stored session. It is only built
// from a persisted row.
type GameSessionInDB struct {
	ID                string                `json:"id"`
	UserID            *string               `json:"user_id"`
	Timestamp         time.Time             `json:"timestamp"`
	Score             int                   `json:"score"`
	GameTime          int                   `json:"game_time"`
	Difficulty        models.Difficulty     `json:"difficulty"`
	SnakeLength       int                   `json:"snake_length"`
	MovementPattern   []Position            `json:"movement_pattern"`
	CollisionType     *models.CollisionType `json:"collision_type"`
	PowerUpsCollected int                   `json:"power_ups_collected"`
	BoardSize         int                   `json:"board_size"`
	ClientIP          *string               `json:"client_ip"`
	UserAgent         *string               `json:"user_agent"`
}

// FromModel converts a persisted GameSession.
func FromModel(m *models.GameSession) GameSessionInDB {
	pattern := make([]Position, len(m.MovementPattern))
	for i, p := range m.MovementPattern {
		pattern[i] = Position{X: p.X, Y: p.Y}
	}
	return GameSessionInDB{
		ID:                m.ID,
		UserID:            m.UserID,
		Timestamp:         m.Timestamp.UTC(),
		Score:             m.Score,
		GameTime:          m.GameTime,
		Difficulty:        m.Difficulty,
		SnakeLength:       m.SnakeLength,
		MovementPattern:   pattern,
		CollisionType:     m.CollisionType,
		PowerUpsCollected: m.PowerUpsCollected,
		BoardSize:         m.BoardSize,
		ClientIP:          m.ClientIP,
		UserAgent:         m.UserAgent,
	}
}

// FromModels converts a slice of persisted sessions.
func FromModels(ms []models.GameSession) []GameSessionInDB {
	out := make([]GameSessionInDB, len(ms))
	for i := range ms {
		out[i] = FromModel(&ms[i])
	}
	return out
}

func enumList[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
