package hours

// Config holds configuration for the synchronization service.
type Config struct {
	// OutputDir is where run artifacts (snapshots, statistics) are written.
	OutputDir string `mapstructure:"output_dir" default:"output"`
	// TempDir holds downloads and screenshots; cleaned at the start of a run.
	TempDir string `mapstructure:"temp_dir" default:"temp"`
	// SchemaPath is the JSON Schema database events are validated against.
	SchemaPath string `mapstructure:"schema_path" default:"schemas/events.schema.json"`
	// Development mode settings.
	Development Development `mapstructure:"development"`
}

// Development forces every run onto a fixed test year, so experiments can
// never touch production years by accident.
type Development struct {
	// Enabled toggles development mode.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// TestYear is the year every run is forced to while enabled.
	TestYear int `mapstructure:"test_year" default:"2024"`
}
