package shared

// LoadingStage is one step of the progressive loading indicator clients show
// while a board is being generated.
type LoadingStage struct {
	Message  string `json:"message"`
	Duration int    `json:"duration"` // expected duration in milliseconds
	Icon     string `json:"icon,omitempty"`
}

// LoadingConfig groups the stages with overall timing hints.
type LoadingConfig struct {
	Stages                 []LoadingStage `json:"stages"`
	TotalEstimatedTime     int            `json:"totalEstimatedTime"`
	ProgressUpdateInterval int            `json:"progressUpdateInterval"`
}

// DefaultLoadingConfig reflects observed end-to-end generation latency.
var DefaultLoadingConfig = LoadingConfig{
	Stages: []LoadingStage{
		{Message: "Analyzing project...", Duration: 2800, Icon: "🔍"},
		{Message: "Generating tasks...", Duration: 2800, Icon: "🏗️"},
		{Message: "Creating board...", Duration: 2800, Icon: "✍️"},
		{Message: "Optimizing layout...", Duration: 2800, Icon: "🎯"},
		{Message: "Almost done...", Duration: 2800, Icon: "✅"},
	},
	TotalEstimatedTime:     14000,
	ProgressUpdateInterval: 500,
}

// CachedLoadingConfig is the fast path shown when a cached structure is served.
var CachedLoadingConfig = LoadingConfig{
	Stages: []LoadingStage{
		{Message: "Loading cached board...", Duration: 50, Icon: "⚡"},
	},
	TotalEstimatedTime:     100,
	ProgressUpdateInterval: 50,
}
