// Package config provides configuration management for hour-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults taken from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Database: MySQL connection details for the hour registration store
//   - Remote: e-boekhouden credentials, URLs and browser settings
//   - Archive: S3/MinIO credentials and bucket settings for run artifacts
//   - Hours: output/temp directories, schema path and development mode
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Host)
package config
