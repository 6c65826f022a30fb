package state

// #region action

// Action is one selectable response to a dilemma. Cost is a signed budget
// delta applied when the action is confirmed.
type Action struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Cost    int    `json:"cost"`
}

// #endregion action

// #region dilemma

// Dilemma is the scenario content presented for one turn. Degraded marks a
// dilemma that was retained after a failed generation, so the UI can flag
// it while still offering the player a next move.
type Dilemma struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []Action `json:"actions"`
	Topic       string   `json:"topic"`
	Degraded    bool     `json:"degraded"`
}

// #endregion dilemma

// #region parameter

// Parameter is one dynamic-consequence entry generated after a choice.
type Parameter struct {
	ID   string `json:"id"`
	Icon string `json:"icon"`
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// #endregion parameter

// #region turn

// Turn is one finalized history entry. It captures the dilemma and support
// values as they stood when the player answered, not what came next.
// Immutable once appended.
type Turn struct {
	Day                int            `json:"day"`
	Choice             Action         `json:"choice"`
	Supports           map[string]int `json:"supports"`
	DilemmaTitle       string         `json:"dilemma_title"`
	DilemmaDescription string         `json:"dilemma_description"`
	Topic              string         `json:"topic"`
}

// #endregion turn

// #region snapshot

// Snapshot is a pre-advance capture of the fields a finalized Turn records.
type Snapshot struct {
	Day      int
	Supports map[string]int
	Dilemma  Dilemma
}

// #endregion snapshot
