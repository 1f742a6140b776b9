// Package filesystem provides the filesystem staging destination.
//
// This file registers the destination with the registry. Import this
// package with a blank identifier to register it:
//
//	import _ "github.com/trymzet/dlt/pkg/destinations/filesystem"
package filesystem

import "github.com/trymzet/dlt/pkg/destination"

func init() {
	destination.Register(New())
}
