package main

type GameSettings struct {
	AIEnabled   bool `json:"ai_enabled"`
	HumanSide   Side `json:"-"`
	SearchDepth int  `json:"search_depth"`
}

// DefaultGameSettings starts a human-vs-AI game at the configured depth.
func DefaultGameSettings(cfg Config) GameSettings {
	return GameSettings{
		AIEnabled:   true,
		HumanSide:   White,
		SearchDepth: cfg.AiDepth,
	}.normalized()
}

func (s GameSettings) AISide() Side {
	return s.HumanSide.Opponent()
}

// normalized clamps the search depth to 1..maxSearchDepth.
func (s GameSettings) normalized() GameSettings {
	s.SearchDepth = min(max(s.SearchDepth, 1), maxSearchDepth)
	return s
}
