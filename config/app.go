package config

import "github.com/kelseyhightower/envconfig"

type AppConfig struct {
	Env  string `envconfig:"APP_ENV" default:"dev"` // test, dev or prod
	Addr string `envconfig:"APP_ADDR" default:":8080"`
}

func NewAppConfig() (AppConfig, error) {
	var conf AppConfig

	if err := envconfig.Process("", &conf); err != nil {
		return AppConfig{}, err
	}

	return conf, nil
}
