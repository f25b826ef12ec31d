package config

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string
	LogLevel  string
	Store     StoreConfig
	Turso     TursoConfig
	Slack     SlackConfig
	Riot      RiotConfig
	ProjectID string
}

type StoreConfig struct {
	Backend   string
	DBName    string
	StatsFile string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RiotConfig struct {
	APIKey      string
	RegionalURL string
	PlatformURL string
}
