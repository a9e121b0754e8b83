// Package bootstrap provides the lifecycle shared by pipekit binaries:
// config defaults and validation, logger initialization, start and stop
// hooks around a finite task, and cancellation on SIGINT and SIGTERM.
package bootstrap
