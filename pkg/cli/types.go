package cli

// CmdConfig holds parsed command-line configuration.
type CmdConfig struct {
	Command       string
	StagingAction string
	ConfigFile    string
	Site          string
	PlanFile      string
	Template      string
	Network       string
	Serials       []string
	Search        string
	OutputDir     string
	Copy          bool
	Yes           bool
	Debug         bool
}
