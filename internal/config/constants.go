package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./book-reviews.db"

	// DefaultStatsSchedule reports catalog counts hourly at :00
	DefaultStatsSchedule = "0 * * * *"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)
