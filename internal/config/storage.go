package config

// Storage drivers. DriverSQLite is the pure-Go modernc driver, DriverSQLite3
// the cgo mattn driver.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
	DriverMemory  = "memory"
)

// ValidDrivers lists the accepted storage.driver values.
var ValidDrivers = []string{DriverSQLite, DriverSQLite3, DriverMemory}

// StorageConfig configures the cart/phone persistence file.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}
