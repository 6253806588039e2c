package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/storecast/schema"
	"github.com/samber/lo"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 10 * time.Minute
	DefaultListen    = ":8080"
	DefaultUserAgent = "storecast"

	// AutoHighlight selects the highlight window of the rendering view.
	AutoHighlight = -1

	// MaxImageBytes is the upper bound for an uploaded image.
	MaxImageBytes = 10 << 20
)

// Classification request encodings.
const (
	MultipartEncoding = "multipart"
	JSONEncoding      = "json"
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	UseColors  bool

	ChartWidth  int
	ChartHeight int
	Highlight   int // AutoHighlight picks the view default
	Curve       schema.CurveMode

	Timeout          time.Duration
	ForecastURL      string
	RecommendURL     string
	ClassifyURL      string
	ClassifyEncoding string
	UserAgent        string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Listen string

	// Form selections from command flags and arguments
	Department   int
	Store        int
	Customer     string
	LastPurchase string
	ImagePath    string
	ChartInput   string

	Catalog schema.Catalog
}

// CatalogRawInput holds catalog overrides from the YAML config file.
type CatalogRawInput struct {
	Departments []int             `mapstructure:"departments"`
	Stores      []int             `mapstructure:"stores"`
	Customers   []schema.Customer `mapstructure:"customers"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ImagePathStr  string
	ChartInputStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	Height           int    `mapstructure:"height"`
	Highlight        int    `mapstructure:"highlight"`
	Curve            string `mapstructure:"curve"`
	Timeout          string `mapstructure:"timeout"`
	ForecastURL      string `mapstructure:"forecast-url"`
	RecommendURL     string `mapstructure:"recommend-url"`
	ClassifyURL      string `mapstructure:"classify-url"`
	ClassifyEncoding string `mapstructure:"classify-encoding"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Listen           string `mapstructure:"listen"`

	// --- Fields from forecastCmd / recommendCmd flags ---
	Department   int    `mapstructure:"department"`
	Store        int    `mapstructure:"store"`
	Customer     string `mapstructure:"customer"`
	LastPurchase string `mapstructure:"last-purchase"`

	// --- Catalog overrides from config file ---
	Catalog CatalogRawInput `mapstructure:"catalog"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Catalog = schema.Catalog{
		Departments: append([]int(nil), c.Catalog.Departments...),
		Stores:      append([]int(nil), c.Catalog.Stores...),
		Customers:   append([]schema.Customer(nil), c.Catalog.Customers...),
	}
	return &clone
}

// HighlightOr returns the configured highlight window, or def when it is automatic.
func (c *Config) HighlightOr(def int) int {
	if c.Highlight == AutoHighlight {
		return def
	}
	return c.Highlight
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processChartOptions(cfg, input); err != nil {
		return err
	}
	if err := processEndpoints(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCatalog(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateEndpointURL checks that raw is empty or an absolute http(s) URL.
func ValidateEndpointURL(name, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http or https URL", name, raw)
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.ImagePath = strings.TrimSpace(input.ImagePathStr)
	cfg.ChartInput = strings.TrimSpace(input.ChartInputStr)
	cfg.Department = input.Department
	cfg.Store = input.Store
	cfg.Customer = strings.TrimSpace(input.Customer)
	cfg.LastPurchase = strings.TrimSpace(input.LastPurchase)
	cfg.Listen = input.Listen
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, svg, png", input.Output)
	}

	return nil
}

// processChartOptions validates the chart geometry.
func processChartOptions(cfg *Config, input *ConfigRawInput) error {
	if input.Width <= 0 {
		return fmt.Errorf("width must be greater than 0 (received %d)", input.Width)
	}
	if input.Height <= 0 {
		return fmt.Errorf("height must be greater than 0 (received %d)", input.Height)
	}
	if input.Highlight < AutoHighlight {
		return fmt.Errorf("highlight must be 0 or greater (received %d)", input.Highlight)
	}
	cfg.ChartWidth = input.Width
	cfg.ChartHeight = input.Height
	cfg.Highlight = input.Highlight

	cfg.Curve = schema.CurveMode(strings.ToLower(input.Curve))
	if cfg.Curve == "" {
		cfg.Curve = schema.MonotoneCurve
	}
	if _, ok := schema.ValidCurveModes[cfg.Curve]; !ok {
		return fmt.Errorf("invalid curve '%s'. must be monotone, linear", input.Curve)
	}
	return nil
}

// processEndpoints validates the endpoint URLs and the request settings.
func processEndpoints(cfg *Config, input *ConfigRawInput) error {
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be greater than 0 (received %s)", input.Timeout)
		}
		cfg.Timeout = d
	}

	for name, raw := range map[string]string{
		"forecast-url":  input.ForecastURL,
		"recommend-url": input.RecommendURL,
		"classify-url":  input.ClassifyURL,
	} {
		if err := ValidateEndpointURL(name, strings.TrimSpace(raw)); err != nil {
			return err
		}
	}
	cfg.ForecastURL = strings.TrimSpace(input.ForecastURL)
	cfg.RecommendURL = strings.TrimSpace(input.RecommendURL)
	cfg.ClassifyURL = strings.TrimSpace(input.ClassifyURL)
	cfg.UserAgent = DefaultUserAgent

	cfg.ClassifyEncoding = strings.ToLower(strings.TrimSpace(input.ClassifyEncoding))
	switch cfg.ClassifyEncoding {
	case "":
		cfg.ClassifyEncoding = MultipartEncoding
	case MultipartEncoding, JSONEncoding:
	default:
		return fmt.Errorf("invalid classify encoding '%s'. must be multipart, json", input.ClassifyEncoding)
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		d, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		if d < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = d
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Validate that cache and history use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := lo.Ternary(cfg.CacheDBConnect == "", GetCacheDBFilePath(), cfg.CacheDBConnect)
		historyPath := lo.Ternary(cfg.HistoryDBConnect == "", GetHistoryDBFilePath(), cfg.HistoryDBConnect)
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// processCatalog applies catalog overrides on top of the built-in catalog.
func processCatalog(cfg *Config, input *ConfigRawInput) error {
	catalog := schema.DefaultCatalog()
	if len(input.Catalog.Departments) > 0 {
		catalog.Departments = input.Catalog.Departments
	}
	if len(input.Catalog.Stores) > 0 {
		catalog.Stores = input.Catalog.Stores
	}
	if len(input.Catalog.Customers) > 0 {
		catalog.Customers = input.Catalog.Customers
	}

	for _, c := range catalog.Customers {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.LastPurchase) == "" {
			return fmt.Errorf("catalog customer %d must have a name and a last purchase", c.ID)
		}
	}
	if dups := lo.FindDuplicatesBy(catalog.Customers, func(c schema.Customer) int { return c.ID }); len(dups) > 0 {
		return fmt.Errorf("catalog customer id %d is used more than once", dups[0].ID)
	}

	cfg.Catalog = catalog
	return nil
}
