package config

import "time"

// Config is the root application configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Lookup LookupConfig `yaml:"lookup"`
	Define DefineConfig `yaml:"define"`
	Log    LogConfig    `yaml:"log"`
}

// PathsConfig holds the locations of all persisted files.
type PathsConfig struct {
	WordsFile    string `yaml:"words_file"    env:"GAMEDICT_WORDS_FILE"    env-default:"data/words.txt"`
	BackupFile   string `yaml:"backup_file"   env:"GAMEDICT_BACKUP_FILE"   env-default:"data/words_backup.txt"`
	DictFile     string `yaml:"dict_file"     env:"GAMEDICT_DICT_FILE"     env-default:"data/dictionary.xml"`
	ProgressFile string `yaml:"progress_file" env:"GAMEDICT_PROGRESS_FILE" env-default:"data/definition_progress.json"`
	LogFile      string `yaml:"log_file"      env:"GAMEDICT_LOG_FILE"      env-default:"logs/log.txt"`
}

// FetchConfig holds word-list download settings.
type FetchConfig struct {
	URL             string        `yaml:"url"              env:"FETCH_URL"              env-default:"https://raw.githubusercontent.com/dolph/dictionary/master/enable1.txt"`
	Timeout         time.Duration `yaml:"timeout"          env:"FETCH_TIMEOUT"          env-default:"30s"`
	RetryAttempts   int           `yaml:"retry_attempts"   env:"FETCH_RETRY_ATTEMPTS"   env-default:"3"`
	RetryDelay      time.Duration `yaml:"retry_delay"      env:"FETCH_RETRY_DELAY"      env-default:"5s"`
	ShrinkThreshold float64       `yaml:"shrink_threshold" env:"FETCH_SHRINK_THRESHOLD" env-default:"0.9"`
}

// LookupConfig holds external definition-service settings.
// API keys are optional; a service without its key is skipped.
type LookupConfig struct {
	RapidAPIKey   string        `yaml:"rapidapi_key"   env:"RAPIDAPI_KEY"`
	WordnikAPIKey string        `yaml:"wordnik_key"    env:"WORDNIK_API_KEY"`
	Timeout       time.Duration `yaml:"timeout"        env:"LOOKUP_TIMEOUT"        env-default:"10s"`
	MaxRetries    int           `yaml:"max_retries"    env:"LOOKUP_MAX_RETRIES"    env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay"    env:"LOOKUP_RETRY_DELAY"    env-default:"500ms"`
	ServiceDelay  time.Duration `yaml:"service_delay"  env:"LOOKUP_SERVICE_DELAY"  env-default:"50ms"`
}

// DefineConfig holds enrichment-run defaults; CLI flags override them.
type DefineConfig struct {
	Count        int           `yaml:"count"         env:"DEFINE_COUNT"         env-default:"100"`
	MaxCount     int           `yaml:"max_count"     env:"DEFINE_MAX_COUNT"     env-default:"10000"`
	Strategy     string        `yaml:"strategy"      env:"DEFINE_STRATEGY"      env-default:"smart"`
	Delay        time.Duration `yaml:"delay"         env:"DEFINE_DELAY"         env-default:"50ms"`
	BatchSize    int           `yaml:"batch_size"    env:"DEFINE_BATCH_SIZE"    env-default:"100"`
	SaveInterval time.Duration `yaml:"save_interval" env:"DEFINE_SAVE_INTERVAL" env-default:"1m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
