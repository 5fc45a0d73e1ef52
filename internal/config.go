package internal

import "time"

type Config struct {
	LogLevel   string `env:"LOG_LEVEL,required=true"`
	InstanceID string `env:"INSTANCE_ID,required=true"`

	DatabaseDSN string `env:"DATABASE_DSN,required=true"`

	AmqpURL        string        `env:"AMQP_URL"`
	AmqpPoolSize   int           `env:"AMQP_POOL_SIZE,required=true"`
	AmqpPrefetch   int           `env:"AMQP_PREFETCH,required=true"`
	DedupFilepath  string        `env:"DEDUP_FILEPATH,required=true"`
	DedupRetention time.Duration `env:"DEDUP_RETENTION,required=true"`

	GatewayAddr string `env:"GATEWAY_ADDR,required=true"`
	AdminAddr   string `env:"ADMIN_ADDR,required=true"`
	JWTSecret   string `env:"JWT_SECRET,required=true"`

	WaitTickInterval time.Duration `env:"WAIT_TICK_INTERVAL,required=true"`
}

// BrokerEnabled reports whether events flow through AMQP or loop back in
// process. An empty url selects loopback mode.
func (c Config) BrokerEnabled() bool {
	return c.AmqpURL != ""
}
