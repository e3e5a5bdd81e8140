package analyzer

// Severity is the level tag extracted from a single log line.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarn    Severity = "WARN"
	SeverityError   Severity = "ERROR"
	SeverityUnknown Severity = "UNKNOWN"
)

// HealthStatus represents the overall verdict for a batch of lines.
type HealthStatus string

const (
	StatusGreen HealthStatus = "GREEN"
	StatusAmber HealthStatus = "AMBER"
	StatusRed   HealthStatus = "RED"
)

// rank orders statuses from least to most severe.
func (s HealthStatus) rank() int {
	switch s {
	case StatusRed:
		return 2
	case StatusAmber:
		return 1
	default:
		return 0
	}
}

// Worse reports whether s is more severe than other.
func (s HealthStatus) Worse(other HealthStatus) bool {
	return s.rank() > other.rank()
}

// LevelCounts holds per-level tallies. UNKNOWN lines never contribute.
type LevelCounts struct {
	Info  int `json:"info"`
	Warn  int `json:"warn"`
	Error int `json:"error"`
	Total int `json:"total"`
}

// Alert is a rule-triggered warning with a recommended action.
type Alert struct {
	Title  string `json:"title"`
	Action string `json:"action"`
}

// TopError is one distinct ERROR line and how often it occurred.
type TopError struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Summary combines level counts and the health verdict.
type Summary struct {
	Total  int          `json:"total"`
	Info   int          `json:"info"`
	Warn   int          `json:"warn"`
	Error  int          `json:"error"`
	Health HealthStatus `json:"health"`
}

// ChartSeries is the numeric input handed to the chart renderers.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Report is the full result of analyzing one text blob.
type Report struct {
	Summary   Summary     `json:"summary"`
	Alerts    []Alert     `json:"alerts"`
	TopErrors []TopError  `json:"top_errors"`
	Chart     ChartSeries `json:"chart"`
	Lines     int         `json:"lines"`
	Unknown   int         `json:"unknown"`

	// RuleFailures counts custom rules that errored and were skipped.
	RuleFailures int `json:"rule_failures,omitempty"`
}
