package dialect

import "fmt"

// GetDialect returns the Dialect implementation for a driver name.
// Sensitivity classification exists only in SQL Server, so that is the only one.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "sqlserver", "mssql", "":
		return &MSSQLDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q: sensitivity classification requires sqlserver", driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*MSSQLDialect)(nil)
