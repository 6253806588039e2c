package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// FormKind identifies which prediction form issued a submission.
	FormKind string

	// SubmissionStatus is the outcome of a single submission.
	SubmissionStatus string

	// CurveMode selects point-to-point interpolation for chart paths.
	CurveMode string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	SVGOut     OutputMode = "svg"
	PNGOut     OutputMode = "png"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All form kinds.
const (
	ForecastForm       FormKind = "forecast"
	RecommendationForm FormKind = "recommendation"
	ClassificationForm FormKind = "classification"
)

// Submission outcomes.
const (
	SubmissionOK     SubmissionStatus = "ok"
	SubmissionFailed SubmissionStatus = "failed"
)

// Curve modes.
const (
	MonotoneCurve CurveMode = "monotone" // default
	LinearCurve   CurveMode = "linear"
)

// Chart defaults shared by the CLI, the web server and the MCP tools.
const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 500

	// DefaultChartHighlight is the trailing window used when rendering arbitrary series.
	DefaultChartHighlight = 30

	// DefaultForecastHighlight is the trailing window used for forecast responses,
	// which carry roughly four months of actuals followed by one month of weekly forecast.
	DefaultForecastHighlight = 5
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	SVGOut:     {},
	PNGOut:     {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCurveModes lists all valid curve modes.
var ValidCurveModes = map[CurveMode]struct{}{
	MonotoneCurve: {},
	LinearCurve:   {},
}

// AllFormKinds returns every form kind in display order.
var AllFormKinds = []FormKind{ForecastForm, RecommendationForm, ClassificationForm}
