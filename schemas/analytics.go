package schemas

import (
	"fmt"
	"time"

	"snake-analytics/models"

	"gorm.io/datatypes"
)

// AIInsightCreate is written by the external analytics generator, once per
// session.
type AIInsightCreate struct {
	Timestamp            *int64
	SkillLevel           models.SkillLevel
	Strengths            []string
	Weaknesses           []string
	Recommendations      []string
	Heatmap              []models.HeatPoint
	Patterns             []models.Pattern
	ScoreComparison      *float64
	TimeComparison       *float64
	EfficiencyComparison *float64
}

func DecodeAIInsightCreate(body []byte) (*AIInsightCreate, error) {
	var errs ValidationErrors
	obj, ok := parseObject(body, "", &errs)
	if !ok {
		return nil, errs
	}

	in := &AIInsightCreate{}
	in.Timestamp = obj.optionalInt("timestamp")
	if s, ok := obj.requiredString("skill_level"); ok {
		l, err := models.ParseSkillLevel(s)
		if err != nil {
			errs.add("skill_level", "must be one of %s", enumList(models.SkillLevels))
		}
		in.SkillLevel = l
	}
	in.Strengths, _ = obj.stringArray("strengths", true)
	in.Weaknesses, _ = obj.stringArray("weaknesses", true)
	in.Recommendations, _ = obj.stringArray("recommendations", true)

	if _, present := obj.lookup("heatmap"); present {
		items, _ := obj.requiredArray("heatmap")
		for i, item := range items {
			p, ok := parseObject(item, fmt.Sprintf("heatmap[%d]", i), &errs)
			if !ok {
				continue
			}
			in.Heatmap = append(in.Heatmap, models.HeatPoint{
				X:         int(p.requiredInt("x")),
				Y:         int(p.requiredInt("y")),
				Frequency: p.requiredFloat("frequency"),
			})
		}
	}

	if _, present := obj.lookup("patterns"); present {
		items, _ := obj.requiredArray("patterns")
		for i, item := range items {
			p, ok := parseObject(item, fmt.Sprintf("patterns[%d]", i), &errs)
			if !ok {
				continue
			}
			name, _ := p.requiredString("name")
			desc, _ := p.requiredString("description")
			in.Patterns = append(in.Patterns, models.Pattern{
				Name:        name,
				Description: desc,
				Frequency:   p.requiredFloat("frequency"),
			})
		}
	}

	in.ScoreComparison = obj.optionalFloat("score_comparison")
	in.TimeComparison = obj.optionalFloat("time_comparison")
	in.EfficiencyComparison = obj.optionalFloat("efficiency_comparison")

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// ToModel builds the AIInsight row for sessionID.
func (in *AIInsightCreate) ToModel(sessionID string) *models.AIInsight {
	m := &models.AIInsight{
		GameSessionID:        sessionID,
		SkillLevel:           in.SkillLevel,
		Strengths:            datatypes.JSONSlice[string](in.Strengths),
		Weaknesses:           datatypes.JSONSlice[string](in.Weaknesses),
		Recommendations:      datatypes.JSONSlice[string](in.Recommendations),
		Heatmap:              datatypes.JSONSlice[models.HeatPoint](in.Heatmap),
		Patterns:             datatypes.JSONSlice[models.Pattern](in.Patterns),
		ScoreComparison:      in.ScoreComparison,
		TimeComparison:       in.TimeComparison,
		EfficiencyComparison: in.EfficiencyComparison,
	}
	if in.Timestamp != nil {
		m.Timestamp = time.UnixMilli(*in.Timestamp).UTC()
	}
	return m
}

// ProfileAnalysis carries the fields of a PlayerProfile that only the
// analytics process writes. Absent fields are left untouched.
type ProfileAnalysis struct {
	PlayerStyle         *models.PlayStyle
	StyleConfidence     *float64
	PreferredDifficulty *models.Difficulty
	SkillLevel          *models.SkillLevel
	PracticeAreas       []string
	SuggestedTechniques []string

	// set when the field was present in the payload, even if empty
	hasPracticeAreas       bool
	hasSuggestedTechniques bool
}

func (a *ProfileAnalysis) HasPracticeAreas() bool       { return a.hasPracticeAreas }
func (a *ProfileAnalysis) HasSuggestedTechniques() bool { return a.hasSuggestedTechniques }

func DecodeProfileAnalysis(body []byte) (*ProfileAnalysis, error) {
	var errs ValidationErrors
	obj, ok := parseObject(body, "", &errs)
	if !ok {
		return nil, errs
	}

	a := &ProfileAnalysis{}
	if s, ok := obj.optionalString("player_style"); ok && s != nil {
		if p, err := models.ParsePlayStyle(*s); err != nil {
			errs.add("player_style", "must be one of %s", enumList(models.PlayStyles))
		} else {
			a.PlayerStyle = &p
		}
	}
	if c := obj.optionalFloat("style_confidence"); c != nil {
		if *c < 0 || *c > 1 {
			errs.add("style_confidence", "must be between 0.0 and 1.0")
		}
		a.StyleConfidence = c
	}
	if s, ok := obj.optionalString("preferred_difficulty"); ok && s != nil {
		if d, err := models.ParseDifficulty(*s); err != nil {
			errs.add("preferred_difficulty", "must be one of %s", enumList(models.Difficulties))
		} else {
			a.PreferredDifficulty = &d
		}
	}
	if s, ok := obj.optionalString("skill_level"); ok && s != nil {
		if l, err := models.ParseSkillLevel(*s); err != nil {
			errs.add("skill_level", "must be one of %s", enumList(models.SkillLevels))
		} else {
			a.SkillLevel = &l
		}
	}
	a.PracticeAreas, a.hasPracticeAreas = obj.stringArray("practice_areas", false)
	a.SuggestedTechniques, a.hasSuggestedTechniques = obj.stringArray("suggested_techniques", false)

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return a, nil
}

// Recommendations is the personalised advice returned to the game client.
type Recommendations struct {
	Difficulty          *models.Difficulty `json:"difficulty,omitempty"`
	PracticeAreas       []string           `json:"practice_areas"`
	SuggestedTechniques []string           `json:"suggested_techniques"`
}

// RecommendationsFromProfile reads the advice stored on a profile.
func RecommendationsFromProfile(p *models.PlayerProfile) Recommendations {
	r := Recommendations{
		Difficulty:          p.PreferredDifficulty,
		PracticeAreas:       []string(p.PracticeAreas),
		SuggestedTechniques: []string(p.SuggestedTechniques),
	}
	if r.PracticeAreas == nil {
		r.PracticeAreas = []string{}
	}
	if r.SuggestedTechniques == nil {
		r.SuggestedTechniques = []string{}
	}
	return r
}
