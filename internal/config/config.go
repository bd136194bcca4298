package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Session struct {
		TTLMinutes int
	}
	Models struct {
		Dir            string
		AnemiaScaler   string
		AnemiaModel    string
		BrainModel     string
		DiabetesScaler string
		DiabetesModel  string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("MEDPREDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/medpredict.db")
	v.SetDefault("session.ttlminutes", 60)
	v.SetDefault("models.dir", "models")
	v.SetDefault("models.anemiascaler", "anemia_scaler.gob")
	v.SetDefault("models.anemiamodel", "anemia_model.gob")
	v.SetDefault("models.brainmodel", "brain_model.gob")
	v.SetDefault("models.diabetesscaler", "diabetes_scaler.gob")
	v.SetDefault("models.diabetesmodel", "diabetes_model.gob")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "medpredict-models")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// ArtifactPath joins a configured artifact file name to the models dir,
// leaving absolute names untouched.
func (c Config) ArtifactPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Models.Dir, name)
}
