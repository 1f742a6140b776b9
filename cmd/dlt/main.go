// Package main provides the dlt dataset CLI.
package main

import (
	"github.com/trymzet/dlt/internal/cli"

	_ "github.com/trymzet/dlt/pkg/destinations/duckdb"
	_ "github.com/trymzet/dlt/pkg/destinations/filesystem"
	_ "github.com/trymzet/dlt/pkg/destinations/postgres"
	_ "github.com/trymzet/dlt/pkg/destinations/sqlite"
)

func main() {
	cli.Execute()
}
