package config

type Config struct {
	HTTP     HTTP
	Redis    Redis
	Gemini   Gemini
	Advisor  Advisor
	Telegram Telegram
}

type HTTP struct {
	Port int `env:"HTTP_PORT" envDefault:"8080"`
}

type Redis struct {
	Endpoint  string `env:"REDIS_ENDPOINT" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	LedgerKey string `env:"LEDGER_KEY" envDefault:"xixi_finance_data"`
}

type Gemini struct {
	Model          string `env:"GEMINI_MODEL" envDefault:"gemini-3-pro-preview"`
	TimeoutSeconds int    `env:"GEMINI_TIMEOUT" envDefault:"30"`
}

type Advisor struct {
	QuietSeconds int `env:"ANALYSIS_QUIET_PERIOD" envDefault:"3"`
	MaxRecords   int `env:"ANALYSIS_MAX_RECORDS" envDefault:"50"`
}

type Telegram struct {
	ChatID int64 `env:"TG_CHAT_ID"`
}
