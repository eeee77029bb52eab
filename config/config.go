package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Addr     string `envconfig:"ADDR" default:":3001"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/channels.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error

	JWTSecret string `envconfig:"JWT_SECRET" default:"dev_secret"`

	DefaultTimezone string `envconfig:"DEFAULT_TZ" default:"Asia/Taipei"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `envconfig:"TWILIO_FROM"`

	AzureSpeechKey    string `envconfig:"AZURE_SPEECH_KEY"`
	AzureSpeechRegion string `envconfig:"AZURE_SPEECH_REGION"`
	DefaultVoice      string `envconfig:"DEFAULT_VOICE" default:"en-US-JennyNeural"`
	TTSOutputDir      string `envconfig:"TTS_OUTPUT_DIR" default:"./public/tts"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
