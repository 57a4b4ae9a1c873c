package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents the sub-scores that make up the health score.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// AnalysisStep identifies a stage of the analysis pipeline.
	AnalysisStep string

	// ColorTag is the presentation color attached to a health band.
	ColorTag string
)

// Breakdown keys used in the health score.
const (
	BreakdownResponseTime BreakdownKey = "response_time"
	BreakdownResolution   BreakdownKey = "issue_resolution"
	BreakdownActivity     BreakdownKey = "commit_activity"
	BreakdownBusFactor    BreakdownKey = "bus_factor"
	BreakdownRelease      BreakdownKey = "release_recency"
)

// AllBreakdownKeys lists the health sub-scores in display order.
var AllBreakdownKeys = []BreakdownKey{
	BreakdownResponseTime,
	BreakdownResolution,
	BreakdownActivity,
	BreakdownBusFactor,
	BreakdownRelease,
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Pipeline steps in execution order.
const (
	StepInit         AnalysisStep = "init"
	StepRepo         AnalysisStep = "repo"
	StepIssues       AnalysisStep = "issues"
	StepIssueCounts  AnalysisStep = "issue-counts"
	StepCommits      AnalysisStep = "commits"
	StepReleases     AnalysisStep = "releases"
	StepResponseTime AnalysisStep = "response-time"
	StepAdditional   AnalysisStep = "additional"
	StepAnalytics    AnalysisStep = "analytics"
	StepCalculating  AnalysisStep = "calculating"
	StepComplete     AnalysisStep = "complete"
)

// Color tags attached to health bands.
const (
	ColorGreen  ColorTag = "green"
	ColorBlue   ColorTag = "blue"
	ColorYellow ColorTag = "yellow"
	ColorRed    ColorTag = "red"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
