package config

import (
	"strings"

	"github.com/gotify/configor"
)

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080" env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"ai-interview" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"`
	}
	S3 S3Config
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		From       string `default:"" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	AI struct {
		// Провайдер, который пробуем первым. Если не входит в Order — добавляется в начало
		Preferred string `default:"" env:"AI_PROVIDER"`
		// Порядок обхода провайдеров через запятую
		Order string `default:"groq,gemini,azure" env:"AI_PROVIDER_ORDER"`

		Groq struct {
			APIKey  string `default:"" env:"GROQ_API_KEY"`
			Model   string `default:"llama-3.1-8b-instant" env:"GROQ_MODEL"`
			BaseURL string `default:"https://api.groq.com/openai/v1" env:"GROQ_BASE_URL"`
		}
		Gemini struct {
			APIKey  string `default:"" env:"GEMINI_API_KEY"`
			Model   string `default:"gemini-2.0-flash" env:"GEMINI_MODEL"`
			BaseURL string `default:"https://generativelanguage.googleapis.com/v1beta" env:"GEMINI_BASE_URL"`
		}
		Azure struct {
			Endpoint   string `default:"" env:"AZURE_OPENAI_ENDPOINT"`
			APIKey     string `default:"" env:"AZURE_OPENAI_KEY"`
			Deployment string `default:"" env:"AZURE_OPENAI_DEPLOYMENT"`
			APIVersion string `default:"2024-02-01" env:"AZURE_OPENAI_API_VERSION"`
		}
		YandexGPT struct {
			IAMToken  string `default:"" env:"YAGPT_IAM_TOKEN"`
			CatalogID string `default:"" env:"YAGPT_CATALOG_ID"`
		}
	}
	FollowUp FollowUpConfig
	Transcribe struct {
		Endpoint string `default:"http://127.0.0.1:9300/v1/audio/transcriptions" env:"TRANSCRIBE_ENDPOINT"`
		Model    string `default:"whisper-1" env:"TRANSCRIBE_MODEL"`
	}
	Emotion struct {
		Endpoint    string `default:"http://127.0.0.1:9400/analyze" env:"EMOTION_ENDPOINT"`
		FrameStride int    `default:"15" env:"EMOTION_FRAME_STRIDE"`
	}
	Pipeline struct {
		Workers   int `default:"4" env:"PIPELINE_WORKERS"`
		QueueSize int `default:"64" env:"PIPELINE_QUEUE_SIZE"`
	}
}

// FollowUpConfig — гейт необходимости уточняющего вопроса
type FollowUpConfig struct {
	MinTranscriptWords int `default:"30" env:"FOLLOWUP_MIN_TRANSCRIPT_WORDS"`
	AccuracyBelow      int `default:"60" env:"FOLLOWUP_ACCURACY_BELOW"`
	CommunicationBelow int `default:"55" env:"FOLLOWUP_COMMUNICATION_BELOW"`
}

type S3Config struct {
	Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
	AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
	UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	BucketName      string `default:"ai-interview" env:"S3_BUCKET_NAME"`
}

// ProviderOrder — сконфигурированный порядок провайдеров
func (c *Configuration) ProviderOrder() []string {
	order := []string{}
	for _, p := range strings.Split(c.AI.Order, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			order = append(order, p)
		}
	}
	return order
}

func configFiles() []string {
	return []string{"config.yml"}
}

func Load() (*Configuration, error) {
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		return nil, err
	}
	return conf, nil
}
