// Package postgres provides the PostgreSQL destination.
//
// This file registers the destination with the registry. Import this
// package with a blank identifier to register it:
//
//	import _ "github.com/trymzet/dlt/pkg/destinations/postgres"
package postgres

import "github.com/trymzet/dlt/pkg/destination"

func init() {
	destination.Register(New())
}
