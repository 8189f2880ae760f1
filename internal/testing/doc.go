// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating instance configurations
//   - InstanceFixture: A temporary install prefix with template sources in place
//   - MockOps, MockDirectory, MockFetcher: Stand-ins for the host, LDAP and S3
//   - RecordingObserver: Captures provisioning events for assertions
//
// Usage:
//
//	cfg := testutil.NewConfigBuilder().
//	    WithServerID("test1").
//	    WithPort(10389).
//	    Build()
//
//	fixture := testutil.NewInstanceFixture(t, cfg)
//	ops := testutil.NewMockOps()
package testing
