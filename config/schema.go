package config

import (
	"github.com/kelseyhightower/envconfig"

	"yandex-team.ru/candytask/internal/validation"
)

// SchemaConfig mirrors the constraints owned by the store schema: courier
// type enum members, weight bounds and batch caps. Validation receives them
// from here so a schema migration is a config change, not a code change.
type SchemaConfig struct {
	CourierTypes []string `envconfig:"SCHEMA_COURIER_TYPES" default:"foot,bike,car"`
	WeightMin    float64  `envconfig:"SCHEMA_WEIGHT_MIN" default:"0.01"`
	WeightMax    float64  `envconfig:"SCHEMA_WEIGHT_MAX" default:"50"`
	MaxBatch     int      `envconfig:"SCHEMA_MAX_BATCH" default:"10000"`
	MaxWindows   int      `envconfig:"SCHEMA_MAX_WINDOWS" default:"10000"`
}

func NewSchemaConfig() (SchemaConfig, error) {
	var conf SchemaConfig

	if err := envconfig.Process("", &conf); err != nil {
		return SchemaConfig{}, err
	}

	return conf, nil
}

func (c SchemaConfig) Limits() validation.Limits {
	return validation.Limits{
		CourierTypes: c.CourierTypes,
		WeightMin:    c.WeightMin,
		WeightMax:    c.WeightMax,
		MaxBatch:     c.MaxBatch,
		MaxWindows:   c.MaxWindows,
	}
}
