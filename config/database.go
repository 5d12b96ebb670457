package config

import "github.com/kelseyhightower/envconfig"

type PgsqlConnectionConf struct {
	Host     string `envconfig:"DB_HOST" default:"db"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Database string `envconfig:"DB_NAME" default:"postgres"`
	Username string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"password"`
}

type DatabaseConfig struct {
	Pgsql PgsqlConnectionConf
}

func DatabaseConf() (*DatabaseConfig, error) {
	var pgsql PgsqlConnectionConf

	if err := envconfig.Process("", &pgsql); err != nil {
		return nil, err
	}

	return &DatabaseConfig{Pgsql: pgsql}, nil
}
