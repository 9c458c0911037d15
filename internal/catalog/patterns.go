package catalog

// Built-in pattern library. Ordered roughly by difficulty within each meter.
var builtin = []Pattern{
	// 4/4 easy
	{ID: "44-steady-quarters", Name: "Steady Quarters", Signature: FourFour, Tier: TierEasy,
		Events: events(Quarter, Quarter, Quarter, Quarter)},
	{ID: "44-walk-and-run", Name: "Walk and Run", Signature: FourFour, Tier: TierEasy,
		Events: events(Quarter, Quarter, Eighth, Eighth)},
	{ID: "44-run-and-walk", Name: "Run and Walk", Signature: FourFour, Tier: TierEasy,
		Events: events(Eighth, Eighth, Quarter, Quarter)},
	{ID: "44-middle-run", Name: "Middle Run", Signature: FourFour, Tier: TierEasy,
		Events: events(Quarter, Eighth, Eighth, Quarter)},

	// 4/4 medium
	{ID: "44-rolling-eighths", Name: "Rolling Eighths", Signature: FourFour, Tier: TierMedium,
		Events: events(Eighth, Eighth, Eighth, Eighth)},
	{ID: "44-sprint-finish", Name: "Sprint Finish", Signature: FourFour, Tier: TierMedium,
		Events: events(Quarter, Quarter, Quarter, Sixteenth)},
	{ID: "44-gallop", Name: "Gallop", Signature: FourFour, Tier: TierMedium,
		Events: events(Quarter, Sixteenth, Quarter, Sixteenth)},
	{ID: "44-offbeat-push", Name: "Offbeat Push", Signature: FourFour, Tier: TierMedium, Syncopated: true,
		Events: events(Eighth, Quarter, Eighth, Quarter)},

	// 4/4 complex
	{ID: "44-double-time", Name: "Double Time", Signature: FourFour, Tier: TierComplex,
		Events: events(Sixteenth, Sixteenth, Eighth, Quarter)},
	{ID: "44-scatter", Name: "Scatter", Signature: FourFour, Tier: TierComplex,
		Events: events(Sixteenth, Eighth, Sixteenth, Eighth)},
	{ID: "44-broken-gallop", Name: "Broken Gallop", Signature: FourFour, Tier: TierComplex, Syncopated: true,
		Events: events(Eighth, Sixteenth, Quarter, Sixteenth)},
	{ID: "44-rush-hour", Name: "Rush Hour", Signature: FourFour, Tier: TierComplex, Syncopated: true,
		Events: events(Sixteenth, Quarter, Sixteenth, Eighth)},

	// 3/4 easy
	{ID: "34-waltz", Name: "Waltz", Signature: ThreeFour, Tier: TierEasy,
		Events: events(Quarter, Quarter, Quarter)},
	{ID: "34-step-skip", Name: "Step Skip", Signature: ThreeFour, Tier: TierEasy,
		Events: events(Quarter, Eighth, Eighth)},

	// 3/4 medium
	{ID: "34-turning", Name: "Turning", Signature: ThreeFour, Tier: TierMedium,
		Events: events(Eighth, Eighth, Quarter)},
	{ID: "34-spin", Name: "Spin", Signature: ThreeFour, Tier: TierMedium,
		Events: events(Eighth, Quarter, Eighth)},

	// 3/4 complex
	{ID: "34-whirl", Name: "Whirl", Signature: ThreeFour, Tier: TierComplex,
		Events: events(Sixteenth, Eighth, Quarter)},
	{ID: "34-tumble", Name: "Tumble", Signature: ThreeFour, Tier: TierComplex, Syncopated: true,
		Events: events(Eighth, Sixteenth, Eighth)},

	// 6/8 easy
	{ID: "68-lilt", Name: "Lilt", Signature: SixEight, Tier: TierEasy,
		Events: events(Quarter, Quarter, Quarter, Quarter, Quarter, Quarter)},
	{ID: "68-rock-away", Name: "Rock Away", Signature: SixEight, Tier: TierEasy,
		Events: events(Quarter, Quarter, Eighth, Quarter, Quarter, Eighth)},

	// 6/8 medium
	{ID: "68-jig", Name: "Jig", Signature: SixEight, Tier: TierMedium,
		Events: events(Eighth, Eighth, Quarter, Eighth, Eighth, Quarter)},
	{ID: "68-swing-low", Name: "Swing Low", Signature: SixEight, Tier: TierMedium, Syncopated: true,
		Events: events(Quarter, Eighth, Quarter, Eighth, Quarter, Quarter)},

	// 6/8 complex
	{ID: "68-reel", Name: "Reel", Signature: SixEight, Tier: TierComplex,
		Events: events(Sixteenth, Eighth, Quarter, Sixteenth, Eighth, Quarter)},
	{ID: "68-cross-current", Name: "Cross Current", Signature: SixEight, Tier: TierComplex, Syncopated: true,
		Events: events(Eighth, Sixteenth, Quarter, Eighth, Sixteenth, Quarter)},
}

func events(kinds ...DurationKind) []BeatEvent {
	out := make([]BeatEvent, len(kinds))
	for i, k := range kinds {
		out[i] = BeatEvent{Duration: k}
	}
	return out
}

// Builtin returns the built-in pattern catalog.
func Builtin() *Catalog {
	c, err := New(builtin)
	if err != nil {
		// The built-in table is validated by tests; a bad entry is a bug.
		panic(err)
	}
	return c
}
