package eboekhouden

// Config holds configuration for the e-boekhouden browser client.
type Config struct {
	// Username is the e-boekhouden account name.
	Username string `mapstructure:"username" default:""`
	// Password is the e-boekhouden account password.
	Password string `mapstructure:"password" default:""`
	// BaseURL is the application root after login.
	BaseURL string `mapstructure:"base_url" default:"https://secure20.e-boekhouden.nl"`
	// LoginURL is the public login page.
	LoginURL string `mapstructure:"login_url" default:"https://secure.e-boekhouden.nl/bh/?c=homepage"`
	// Headless runs the browser without a visible window.
	Headless bool `mapstructure:"headless" default:"true"`
	// UserAgent is the browser user agent string.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"`
	// WindowWidth and WindowHeight size the browser viewport.
	WindowWidth  int `mapstructure:"window_width" default:"1920"`
	WindowHeight int `mapstructure:"window_height" default:"1080"`
	// TimeoutSeconds bounds individual page interactions.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// DownloadTimeoutSeconds bounds the export download.
	DownloadTimeoutSeconds int `mapstructure:"download_timeout_seconds" default:"60"`
	// DownloadDir is where export files are stored.
	DownloadDir string `mapstructure:"download_dir" default:"temp"`
	// ScreenshotDir is where failure screenshots are stored.
	ScreenshotDir string `mapstructure:"screenshot_dir" default:"temp/screenshots"`
	// Columns maps export spreadsheet headers to fields.
	Columns Columns `mapstructure:"columns"`
}

// Columns names the export spreadsheet headers. The export is localized, so
// the defaults are the Dutch headers e-boekhouden produces.
type Columns struct {
	Date        string `mapstructure:"date" default:"Datum"`
	User        string `mapstructure:"user" default:"Medewerker"`
	Project     string `mapstructure:"project" default:"Project"`
	Activity    string `mapstructure:"activity" default:"Activiteit"`
	Hours       string `mapstructure:"hours" default:"Aantal uren"`
	Description string `mapstructure:"description" default:"Omschrijving"`
	Invoiced    string `mapstructure:"invoiced" default:"Gefactureerd"`
	Modified    string `mapstructure:"modified" default:"Gewijzigd"`
}
