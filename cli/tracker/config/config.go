package config

/*
Описание конфигурационного файла
*/

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

const (
	SourceS3   = "s3"
	SourceFile = "file"
)

type Source struct {
	Kind     string `yaml:"kind"`
	Bucket   string `yaml:"bucket"`
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Dir      string `yaml:"dir"`
}

type Settings struct {
	Host           string                       `yaml:"host"`
	Port           int32                        `yaml:"port"`
	LogLevel       string                       `yaml:"log_level"`
	LogFilePath    string                       `yaml:"log_file_path"`
	LogMaxAgeDays  int                          `yaml:"log_max_age_days"`
	EnvFile        string                       `yaml:"env_file"`
	Source         Source                       `yaml:"source"`
	Store          map[string]map[string]string `yaml:"storage"`
	Notify         map[string]map[string]string `yaml:"notify"`
	ReloadCron     string                       `yaml:"reload_cron"`
	AllowedOrigins []string                     `yaml:"allowed_origins"`
}

// Credentials ключи доступа к объектному хранилищу, задаются только через окружение
type Credentials struct {
	AccessKey string
	SecretKey string
}

func (s *Settings) GetListenAddress() string {
	return s.Host + ":" + strconv.Itoa(int(s.Port))
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

// GetCredentials загружает env-файл, если он есть, и читает ключи из окружения.
// Переменные окружения процесса имеют приоритет над файлом.
func (s *Settings) GetCredentials() Credentials {
	if s.EnvFile != "" {
		if err := godotenv.Load(s.EnvFile); err != nil {
			log.Warnf("Не удалось загрузить файл окружения %s: %v", s.EnvFile, err)
		}
	}

	return Credentials{
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_ACCESS_SECRET_ID"),
	}
}

func New(confPath string) (Settings, error) {
	c := Settings{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.Port < 0 || c.Port > 65535 {
		log.Errorf("Invalid port %d. Defaulting to 8000.", c.Port)
		c.Port = 8000
	}

	if c.Source.Kind == "" {
		c.Source.Kind = SourceS3
	}
	if c.Source.Bucket == "" {
		c.Source.Bucket = "carnot-bucket"
	}
	if c.Source.Key == "" {
		c.Source.Key = "data/data.csv"
	}
	if c.Source.Kind == SourceFile && c.Source.Dir == "" {
		c.Source.Dir = "."
	}

	if len(c.Store) == 0 {
		c.Store = map[string]map[string]string{
			"redis": {"host": "localhost", "port": "6379", "db": "0"},
		}
	}

	return c, err
}
