// Package service registers an instance with the OS service manager and
// writes its control and maintenance scripts.
package service
