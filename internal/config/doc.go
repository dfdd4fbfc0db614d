// Package config provides configuration management for docgrab.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a YAML file with viper
//   - Environment variable overrides
//   - Writing a starter config file
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads into ./files with 2 workers
//	// 3 attempts per target, 3s constant backoff
//
// # Loading from File
//
//	settings, err := config.Load("config.yml")
//	if err != nil {
//	    // Unreadable or malformed file
//	}
//	// apply command-line overrides, then
//	err = settings.Validate()
//
// A missing config.yml falls back to defaults. Environment variables take
// precedence over the file:
//
//	DOWNLOAD_TASK_THREAD_COUNT               concurrency
//	DOWNLOAD_TASK_RETRY_COUNT                max_retry_attempts
//	DOWNLOAD_TASK_RETRY_DELAY                retry_backoff_ms
//	DOWNLOAD_TASK_TIMEOUT                    request_timeout_ms
//	DOWNLOAD_TASK_PROXY                      proxy_endpoint
//	DOWNLOADER_TASK_FILE_URL                 seed
//	DOWNLOADER_TASK_BASE_URL                 base_url
//	DOWNLOADER_TASK_FILE_OUTPUT_DIR_NAME     output_directory
//	DOWNLOADER_TASK_FILE_DOM_ROOT_SELECTOR   root_selector
//	DOWNLOADER_TASK_FILE_DOM_ELEMENT_SELECTOR element_selector
//
// # Saving Settings
//
//	err := config.DefaultSettings().Save("config.yml")
package config
