package connector

// ConnectionStats represents database connection pool statistics.
type ConnectionStats struct {
	OpenConnections int `json:"open_connections" yaml:"open_connections"`
	InUse           int `json:"in_use" yaml:"in_use"`
	Idle            int `json:"idle" yaml:"idle"`
	MaxOpen         int `json:"max_open" yaml:"max_open"`
}
