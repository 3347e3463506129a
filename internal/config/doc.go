// Package config loads the server's settings from defaults, an optional YAML
// file, an optional .env file and TASKMANAGER_-prefixed environment
// variables, and validates the result before anything else starts.
package config
