// Package handlers implements the business logic behind the CLI commands.
//
// Handlers load the instance configuration, build the platform operations
// and the Creator, run the requested flow and print the outcome. External
// collaborators are held in package-level function variables so tests can
// replace them.
package handlers
