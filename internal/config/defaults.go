package config

import "time"

// Development defaults. Anything security-sensitive (passwords, service keys)
// defaults to empty and must come from the environment.
const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultDatabaseHost            = "localhost"
	DefaultDatabasePort            = 5432
	DefaultDatabaseUser            = "chemreg"
	DefaultDatabaseName            = "chemreg"
	DefaultDatabaseSSLMode         = "disable"
	DefaultDatabaseMaxConns        = 20
	DefaultDatabaseMinConns        = 2
	DefaultDatabaseConnMaxLifetime = time.Hour
	DefaultDatabaseConnMaxIdleTime = 30 * time.Minute
	DefaultDatabaseMigrationPath   = "file://migrations"

	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisKeyPrefix    = "chemreg"

	DefaultKafkaGroupID         = "chemreg-worker"
	DefaultKafkaBatchTopic      = "chemreg.batch.jobs"
	DefaultKafkaAutoOffsetReset = "earliest"
	DefaultKafkaProducerRetries = 3

	DefaultOpenSearchIndexPrefix = "chemreg"

	DefaultMinIOEndpoint      = "localhost:9000"
	DefaultMinIOBucket        = "chemreg-exports"
	DefaultMinIOPresignExpiry = 24 * time.Hour

	DefaultKOSHABaseURL = "https://msds.kosha.or.kr/openapi/service/msdschem"
	DefaultKECOBaseURL  = "https://apis.data.go.kr/B552584/chmreg"

	DefaultRegistryTimeout  = 10 * time.Second
	DefaultCourtesyDelay    = 300 * time.Millisecond
	DefaultRegistryCacheTTL = 24 * time.Hour

	DefaultBatchWorkers     = 5
	DefaultBatchProgressTTL = 72 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stdout"

	DefaultMetricsNamespace = "chemreg"
)

// ApplyDefaults fills any zero-valued field with its development default.
// Explicitly set values, including those from environment variables, are
// never overwritten.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.Mode == "" {
		c.Server.Mode = DefaultServerMode
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	if c.Database.Host == "" {
		c.Database.Host = DefaultDatabaseHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDatabasePort
	}
	if c.Database.User == "" {
		c.Database.User = DefaultDatabaseUser
	}
	if c.Database.DBName == "" {
		c.Database.DBName = DefaultDatabaseName
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDatabaseSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultDatabaseMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultDatabaseMinConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = DefaultDatabaseConnMaxLifetime
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = DefaultDatabaseConnMaxIdleTime
	}
	if c.Database.MigrationPath == "" {
		c.Database.MigrationPath = DefaultDatabaseMigrationPath
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = DefaultRedisPoolSize
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = DefaultRedisMinIdleConns
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = DefaultRedisReadTimeout
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = DefaultRedisWriteTimeout
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = DefaultKafkaGroupID
	}
	if c.Kafka.BatchTopic == "" {
		c.Kafka.BatchTopic = DefaultKafkaBatchTopic
	}
	if c.Kafka.AutoOffsetReset == "" {
		c.Kafka.AutoOffsetReset = DefaultKafkaAutoOffsetReset
	}
	if c.Kafka.ProducerRetries == 0 {
		c.Kafka.ProducerRetries = DefaultKafkaProducerRetries
	}

	if len(c.OpenSearch.Addresses) == 0 {
		c.OpenSearch.Addresses = []string{"http://localhost:9200"}
	}
	if c.OpenSearch.IndexPrefix == "" {
		c.OpenSearch.IndexPrefix = DefaultOpenSearchIndexPrefix
	}

	if c.MinIO.Endpoint == "" {
		c.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = DefaultMinIOBucket
	}
	if c.MinIO.PresignExpiry == 0 {
		c.MinIO.PresignExpiry = DefaultMinIOPresignExpiry
	}

	if c.Registry.KOSHA.BaseURL == "" {
		c.Registry.KOSHA.BaseURL = DefaultKOSHABaseURL
	}
	if c.Registry.KOSHA.Timeout == 0 {
		c.Registry.KOSHA.Timeout = DefaultRegistryTimeout
	}
	if c.Registry.KECO.BaseURL == "" {
		c.Registry.KECO.BaseURL = DefaultKECOBaseURL
	}
	if c.Registry.KECO.Timeout == 0 {
		c.Registry.KECO.Timeout = DefaultRegistryTimeout
	}
	if c.Registry.CourtesyDelay == 0 {
		c.Registry.CourtesyDelay = DefaultCourtesyDelay
	}
	if c.Registry.CacheTTL == 0 {
		c.Registry.CacheTTL = DefaultRegistryCacheTTL
	}

	if c.Batch.Workers == 0 {
		c.Batch.Workers = DefaultBatchWorkers
	}
	if c.Batch.ProgressTTL == 0 {
		c.Batch.ProgressTTL = DefaultBatchProgressTTL
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Output == "" {
		c.Log.Output = DefaultLogOutput
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}
