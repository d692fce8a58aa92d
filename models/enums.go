// models/enums.go
package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Enum columns are stored as their upper-case literal. CollisionType,
// SkillLevel and PlayStyle travel over JSON in lower case; Difficulty is
// upper case on both sides.

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Difficulties lists every Difficulty in declaration order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty matches s exactly; "easy" is rejected.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", &EnumError{Type: "difficulty", Value: s, Allowed: difficultyValues()}
	}
	return d, nil
}

func (d Difficulty) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, &EnumError{Type: "difficulty", Value: string(d), Allowed: difficultyValues()}
	}
	return string(d), nil
}

func (d *Difficulty) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*d = Difficulty(s)
	return nil
}

func difficultyValues() []string {
	out := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		out[i] = string(d)
	}
	return out
}

// CollisionType says what ended a game.
type CollisionType string

const (
	CollisionWall CollisionType = "wall"
	CollisionSelf CollisionType = "collision"
	CollisionNone CollisionType = "none"
)

var CollisionTypes = []CollisionType{CollisionWall, CollisionSelf, CollisionNone}

func (c CollisionType) Valid() bool {
	switch c {
	case CollisionWall, CollisionSelf, CollisionNone:
		return true
	}
	return false
}

func ParseCollisionType(s string) (CollisionType, error) {
	c := CollisionType(s)
	if !c.Valid() {
		return "", &EnumError{Type: "collision_type", Value: s, Allowed: collisionValues()}
	}
	return c, nil
}

func (c CollisionType) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, &EnumError{Type: "collision_type", Value: string(c), Allowed: collisionValues()}
	}
	return strings.ToUpper(string(c)), nil
}

func (c *CollisionType) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*c = CollisionType(strings.ToLower(s))
	return nil
}

func collisionValues() []string {
	out := make([]string, len(CollisionTypes))
	for i, c := range CollisionTypes {
		out[i] = string(c)
	}
	return out
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

func ParseSkillLevel(s string) (SkillLevel, error) {
	l := SkillLevel(s)
	if !l.Valid() {
		return "", &EnumError{Type: "skill_level", Value: s, Allowed: skillValues()}
	}
	return l, nil
}

func (l SkillLevel) Value() (driver.Value, error) {
	if !l.Valid() {
		return nil, &EnumError{Type: "skill_level", Value: string(l), Allowed: skillValues()}
	}
	return strings.ToUpper(string(l)), nil
}

func (l *SkillLevel) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*l = SkillLevel(strings.ToLower(s))
	return nil
}

func skillValues() []string {
	out := make([]string, len(SkillLevels))
	for i, l := range SkillLevels {
		out[i] = string(l)
	}
	return out
}

// PlayStyle is the behavioural label assigned by the analytics process.
type PlayStyle string

const (
	StyleAggressive    PlayStyle = "aggressive"
	StyleCautious      PlayStyle = "cautious"
	StyleStrategic     PlayStyle = "strategic"
	StyleBalanced      PlayStyle = "balanced"
	StyleUnpredictable PlayStyle = "unpredictable"
)

var PlayStyles = []PlayStyle{StyleAggressive, StyleCautious, StyleStrategic, StyleBalanced, StyleUnpredictable}

func (p PlayStyle) Valid() bool {
	switch p {
	case StyleAggressive, StyleCautious, StyleStrategic, StyleBalanced, StyleUnpredictable:
		return true
	}
	return false
}

func ParsePlayStyle(s string) (PlayStyle, error) {
	p := PlayStyle(s)
	if !p.Valid() {
		return "", &EnumError{Type: "player_style", Value: s, Allowed: styleValues()}
	}
	return p, nil
}

func (p PlayStyle) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, &EnumError{Type: "player_style", Value: string(p), Allowed: styleValues()}
	}
	return strings.ToUpper(string(p)), nil
}

func (p *PlayStyle) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*p = PlayStyle(strings.ToLower(s))
	return nil
}

func styleValues() []string {
	out := make([]string, len(PlayStyles))
	for i, p := range PlayStyles {
		out[i] = string(p)
	}
	return out
}

// EnumError is returned when a value falls outside its enumeration.
type EnumError struct {
	Type    string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Type, e.Value, strings.Join(e.Allowed, ", "))
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("cannot scan %T into an enum column", src)
}
