// internal/app/system/csvutil/limits.go
package csvutil

// MaxRows caps a single export. The export walks the API page by page and
// stops once this many rows have been written.
const MaxRows = 20000
