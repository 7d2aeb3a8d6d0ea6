package bootstrap

import (
	"github.com/kbukum/kvrest/config"
)

// Config is the constraint for application settings. A struct embedding
// config.ServiceConfig satisfies it through promoted methods and may
// override ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
