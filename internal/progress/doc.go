// Package progress provides the indeterminate spinner shown while a query
// is in flight.
package progress
