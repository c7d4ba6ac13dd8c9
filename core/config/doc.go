// Package config provides configuration management for course-studio.
//
// It loads an optional .env file with godotenv and then reads environment
// variables through Viper. Defaults come from the `default` struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port, system API key, CORS origins, body limit
//   - Database: driver (postgres, mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the archive bucket
//   - Log: level and format
//   - Auth: JWT secret and token lifetime
//   - Reconcile: whether saves run in one transaction
//   - Drafts: idle lifetime of editing sessions
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
