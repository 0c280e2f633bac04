// Package shared holds helpers used across packages. Its testutil
// subpackage provides a capturing slog handler, table builders, fake
// delivery data and in-memory workbook fixtures for tests.
package shared
