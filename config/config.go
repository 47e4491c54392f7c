package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Minio    MinioConfig    `yaml:"minio"`
	Provider ProviderConfig `yaml:"provider"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Owner    OwnerConfig    `yaml:"owner"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

// ProviderConfig configures the confidential computation provider.
// Seed is the shared secret behind disclosure checksum verification.
// ServiceAccount is the identity the workflow uses when granting
// itself read access to encrypted handles.
type ProviderConfig struct {
	APIURL         string `yaml:"api_url"`
	APIToken       string `yaml:"api_token"`
	CallbackURL    string `yaml:"callback_url"`
	Seed           string `yaml:"seed"`
	ServiceAccount string `yaml:"service_account"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OwnerConfig names the single account holding the owner role.
type OwnerConfig struct {
	Account string `yaml:"account"`
}

type User struct {
	Account  string `yaml:"account"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"` // owner, investor
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Provider.ServiceAccount == "" {
		cfg.Provider.ServiceAccount = "decision-service"
	}

	return &cfg, nil
}

// FindUser finds a user by account
func (c *Config) FindUser(account string) *User {
	for i := range c.Users {
		if c.Users[i].Account == account {
			return &c.Users[i]
		}
	}
	return nil
}
