package goals

// workoutRate maps a workout type to its burn rate in kcal per minute per kg
// of body weight. Matching scans the table top to bottom and the first
// substring hit wins, so the declared order is load-bearing: reordering
// entries changes which key a multi-matching label resolves to.
type workoutRate struct {
	Key  string
	Rate float64
}

var workoutRates = []workoutRate{
	// cardio
	{"бег", 0.13},
	{"бег трусцой", 0.10},
	{"спринт", 0.18},
	{"ходьба", 0.05},
	{"быстрая ходьба", 0.07},
	{"велосипед", 0.08},
	{"велотренажер", 0.07},
	{"плавание", 0.10},
	{"прыжки", 0.12},
	{"скакалка", 0.14},
	{"танцы", 0.08},
	{"аэробика", 0.09},
	{"степ", 0.10},
	{"эллипс", 0.08},
	{"гребля", 0.09},

	// strength
	{"силовая", 0.05},
	{"тренажерный зал", 0.05},
	{"качалка", 0.05},
	{"штанга", 0.06},
	{"гантели", 0.05},
	{"кроссфит", 0.12},
	{"воркаут", 0.08},
	{"отжимания", 0.07},
	{"приседания", 0.06},
	{"планка", 0.04},

	// team and combat sports
	{"футбол", 0.10},
	{"баскетбол", 0.09},
	{"волейбол", 0.06},
	{"теннис", 0.08},
	{"бадминтон", 0.07},
	{"хоккей", 0.10},
	{"бокс", 0.12},
	{"борьба", 0.11},

	// low intensity
	{"йога", 0.04},
	{"пилатес", 0.04},
	{"растяжка", 0.03},
	{"медитация", 0.01},
}

// defaultRate is used when no table key matches the label.
const defaultRate = 0.07

// workoutGlyphs is matched independently of workoutRates, again first match
// wins in declared order.
type workoutGlyph struct {
	Key   string
	Glyph string
}

var workoutGlyphs = []workoutGlyph{
	{"бег", "🏃‍♂️"},
	{"ходьба", "🚶‍♂️"},
	{"велосипед", "🚴‍♂️"},
	{"плавание", "🏊‍♂️"},
	{"силовая", "🏋️‍♂️"},
	{"йога", "🧘‍♂️"},
	{"танцы", "💃"},
	{"футбол", "⚽"},
	{"баскетбол", "🏀"},
	{"теннис", "🎾"},
	{"бокс", "🥊"},
}

const defaultGlyph = "💪"

// suggestedWorkouts is the fixed list scanned, in order, when building burn
// recommendations.
var suggestedWorkouts = []struct {
	Key   string
	Glyph string
}{
	{"бег", "🏃‍♂️"},
	{"плавание", "🏊‍♂️"},
	{"велосипед", "🚴‍♂️"},
	{"скакалка", "⏱️"},
}
