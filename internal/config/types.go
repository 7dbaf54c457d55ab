package config

import "time"

// Config holds the admin server configuration.
type Config struct {
	ListenAddr string `env:"EVOLUTE_ADDR"       envDefault:":8080"`
	DataDir    string `env:"EVOLUTE_DATA_DIR"   envDefault:"data"`
	LogLevel   string `env:"EVOLUTE_LOG_LEVEL"  envDefault:"info"`  // "debug" | "info" | "warn" | "error"
	LogFormat  string `env:"EVOLUTE_LOG_FORMAT" envDefault:"text"`  // "text" | "json"
	UseKeyring bool   `env:"EVOLUTE_KEYRING"`                       // store private keys in the OS keychain

	RateLimit float64 `env:"EVOLUTE_RATE_LIMIT" envDefault:"10"` // requests per second
	RateBurst int     `env:"EVOLUTE_RATE_BURST" envDefault:"20"`

	ReadTimeout     time.Duration `env:"EVOLUTE_READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"EVOLUTE_WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"EVOLUTE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DefaultProfileEnv is the environment snapshot the read-only default
// profile is synthesized from. Unset variables stay empty.
type DefaultProfileEnv struct {
	AdminAddress    string `env:"ADMIN_ADDRESS"`
	AdminPrivateKey string `env:"ADMIN_PRIVATE_KEY"`
	RPCURL          string `env:"RPC_URL"`
	ToriiURL        string `env:"TORII_URL"`
	WorldAddress    string `env:"WORLD_ADDRESS"`

	GameContract         string `env:"GAME_CONTRACT_ADDRESS"`
	PlayerProfileActions string `env:"PLAYER_PROFILE_ACTIONS_ADDRESS"`
	TutorialContract     string `env:"TUTORIAL_CONTRACT_ADDRESS"`
	AccountMigration     string `env:"ACCOUNT_MIGRATION_ADDRESS"`
}
