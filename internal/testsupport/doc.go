// Package testsupport builds throwaway configurations and data directories
// for tests that exercise the loader, the library and the CLI end to end.
package testsupport
