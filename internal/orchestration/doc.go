// Package orchestration provides high-level workflow coordination for
// directory server instance provisioning.
//
// This package orchestrates the provisioning workflow by delegating to
// specialized provisioners in the internal/provisioning subpackages. It
// defines the execution order and turns the outcome into the single
// operator-facing result message.
//
// # Workflow
//
// Create executes the following phases in order:
//  1. precheck - refuse an id whose service is already registered (Windows only)
//  2. validate - configuration and host checks, before anything is written
//  3. mkdirs - the instance directory tree
//  4. scripts - service registration, control and maintenance scripts
//  5. confs - dse.ldif, copied configuration files, ldap.conf
//  6. load-ldif - optional initial data import
//  7. start - optional start and running-state verification
//  8. integration - optional management entries on the running server
//
// Update runs validate and scripts only, regenerating the scripts of an
// existing instance.
//
// # Usage
//
//	creator := orchestration.NewCreator(platform.Default())
//	result, err := creator.Create(ctx, cfg)
//	fmt.Println(result.Message)
//
// A run is not reentrant: callers must not provision the same instance id
// concurrently. Every phase is idempotent, so a failed run can be repeated
// after the cause is fixed.
package orchestration
