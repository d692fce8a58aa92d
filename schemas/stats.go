package schemas

import "snake-analytics/models"

// StatsAnalysisCreate is the cumulative statistics a client keeps locally.
// The client sends them in camelCase, with deaths split by cause.
type StatsAnalysisCreate struct {
	GamesPlayed     int
	TotalScore      int
	HighestScore    int
	TotalTime       int
	ApplesEaten     int
	WallDeaths      int
	CollisionDeaths int
}

func DecodeStatsAnalysisCreate(body []byte) (*StatsAnalysisCreate, error) {
	var errs ValidationErrors
	obj, ok := parseObject(body, "", &errs)
	if !ok {
		return nil, errs
	}

	in := &StatsAnalysisCreate{
		GamesPlayed:  obj.nonNegativeInt("gamesPlayed"),
		TotalScore:   obj.nonNegativeInt("totalScore"),
		HighestScore: obj.nonNegativeInt("highestScore"),
		TotalTime:    obj.nonNegativeInt("totalTime"),
		ApplesEaten:  obj.nonNegativeInt("applesEaten"),
	}

	if v, ok := obj.lookup("deaths"); !ok {
		errs.add("deaths", "field required")
	} else if d, ok := parseObject(v, "deaths", &errs); ok {
		in.CollisionDeaths = d.nonNegativeInt("collision")
		in.WallDeaths = d.nonNegativeInt("wall")
	}

	if !errs.Has("highestScore") && !errs.Has("totalScore") && in.HighestScore > in.TotalScore {
		errs.add("highestScore", "must not exceed totalScore")
	}
	if !errs.Has("deaths.wall") && !errs.Has("deaths.collision") && !errs.Has("gamesPlayed") &&
		in.WallDeaths+in.CollisionDeaths > in.GamesPlayed {
		errs.add("deaths", "must not exceed gamesPlayed")
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// ToModel builds the snapshot row, attributed to userID when known.
func (in *StatsAnalysisCreate) ToModel(userID *string) *models.StatsSnapshot {
	return &models.StatsSnapshot{
		UserID:         userID,
		GamesPlayed:    in.GamesPlayed,
		TotalScore:     in.TotalScore,
		HighestScore:   in.HighestScore,
		TotalTime:      in.TotalTime,
		ApplesEaten:    in.ApplesEaten,
		WallCollisions: in.WallDeaths,
		SelfCollisions: in.CollisionDeaths,
	}
}

// StatsAnalysisAccepted answers a stats submission with the id the analysis
// will be filed under.
type StatsAnalysisAccepted struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
