package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

type Config struct {
	Http     *HTTPConfig
	Db       *PGDBCfg
	Redis    *RedisCfg
	Qdrant   *QdrantCfg
	Kafka    *KafkaCfg
	Minio    *MinIOCfg
	Encoder  *EncoderCfg
	Recs     *RecsCfg
	Features *FeaturesCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisCfg struct {
	Addr         string
	Password     string
	User         string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	Timeout      time.Duration
	EmbeddingTTL time.Duration // TTL записей эмбеддингов — ограничивает рост кэша
}

type QdrantCfg struct {
	Host           string
	Port           int
	ApiKey         string
	CollectionName string // имя коллекции в Qdrant
	UseTLS         bool
	VectorSize     uint64
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	UploadImagesLimit int // Лимит одновременных загрузок в S3
}

// EncoderCfg — настройки внешнего сервиса векторизации текста.
// Сервис совместим с OpenAI Embeddings API.
type EncoderCfg struct {
	BaseURL       string
	APIKey        string
	Model         string
	Dim           int // размерность векторов D; фиксирована для всего деплоймента
	MaxConcurrent int
	MaxRetries    int
	Timeout       time.Duration
}

// RecsCfg — параметры движка рекомендаций.
type RecsCfg struct {
	DefaultLimit  int // limit по умолчанию, если клиент его не передал
	CandidatePool int // максимальный размер пула кандидатов из каталога
}

// FeaturesCfg описывает опциональные подсистемы.
// Решение о включении принимается один раз при старте: выключенная подсистема
// заменяется явной no-op реализацией, а не проверяется в рантайме.
type FeaturesCfg struct {
	VectorIndex bool   // персистентный индекс эмбеддингов в Qdrant
	Outbox      bool   // публикация embedding-change событий через outbox + Kafka
	ImageStore  bool   // хранение изображений товаров в MinIO
	CacheKind   string // реализация кэша эмбеддингов: redis | memory
}

const (
	CacheKindRedis  = "redis"
	CacheKindMemory = "memory"
)

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	features, err := loadFeaturesCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	encoder, err := loadEncoderCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	recs, err := loadRecsCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg := &Config{
		Http:     http,
		Db:       db,
		Redis:    redis,
		Encoder:  encoder,
		Recs:     recs,
		Features: features,
	}

	// Конфигурация опциональных подсистем читается только если они включены
	if features.VectorIndex {
		qdrant, err := loadQdrantCfg(log, encoder.Dim)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cfg.Qdrant = qdrant
	}

	if features.Outbox {
		kafka, err := loadKafkaCfg()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cfg.Kafka = kafka
	}

	if features.ImageStore {
		minio, err := loadMinIOCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cfg.Minio = minio
	}

	return cfg, nil
}

func loadFeaturesCfg() (*FeaturesCfg, error) {
	vectorIndex, err := parseBoolEnv("FEATURE_VECTOR_INDEX", true)
	if err != nil {
		return nil, e.Wrap("FEATURE_VECTOR_INDEX", err)
	}

	outbox, err := parseBoolEnv("FEATURE_OUTBOX", true)
	if err != nil {
		return nil, e.Wrap("FEATURE_OUTBOX", err)
	}

	imageStore, err := parseBoolEnv("FEATURE_IMAGE_STORE", true)
	if err != nil {
		return nil, e.Wrap("FEATURE_IMAGE_STORE", err)
	}

	cacheKind := getEnvOrDefault("EMBEDDING_CACHE", CacheKindRedis)
	if cacheKind != CacheKindRedis && cacheKind != CacheKindMemory {
		return nil, fmt.Errorf("EMBEDDING_CACHE must be %q or %q, got %q", CacheKindRedis, CacheKindMemory, cacheKind)
	}

	return &FeaturesCfg{
		VectorIndex: vectorIndex,
		Outbox:      outbox,
		ImageStore:  imageStore,
		CacheKind:   cacheKind,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultEmbeddingTTL = 24 * time.Hour
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	embeddingTTL, err := parseDurationEnv("EMBEDDING_TTL", defaultEmbeddingTTL)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:         addr,
		Password:     password,
		User:         user,
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		Timeout:      timeout,
		EmbeddingTTL: embeddingTTL,
	}, nil
}

func loadQdrantCfg(log logger.Logger, vectorSize int) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := parseBoolEnv("QDRANT_USE_TLS", defaultUseTLS)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	collection := getEnv("COLLECTION_NAME")
	if collection == "" {
		return nil, fmt.Errorf("COLLECTION_NAME is required when FEATURE_VECTOR_INDEX is enabled")
	}

	return &QdrantCfg{
		Host:           getEnv("QDRANT_HOST"),
		Port:           port,
		ApiKey:         getEnv("QDRANT__SERVICE__API_KEY"),
		CollectionName: collection,
		UseTLS:         useTLS,
		VectorSize:     uint64(vectorSize), // размерность коллекции совпадает с размерностью энкодера
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", defaultUseSSL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnv("BUCKET_NAME"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: 10,
	}, nil
}

func loadEncoderCfg(log logger.Logger) (*EncoderCfg, error) {
	const (
		defaultModel         = "text-embedding-3-small"
		defaultDim           = 768
		defaultMaxConcurrent = 8
		defaultMaxRetries    = 3
		defaultTimeout       = 30 * time.Second
	)

	baseURL := getEnv("ENCODER_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("ENCODER_BASE_URL environment variable is required")
	}

	dim, err := parseIntEnv("VECTOR_SIZE", defaultDim)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}
	if dim <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be positive, got %d", dim)
	}

	timeout, err := parseDurationEnv("ENCODER_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid ENCODER_TIMEOUT")
		return nil, err
	}

	maxConcurrent, err := parseIntEnv("ENCODER_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		log.Errorf(err, "invalid ENCODER_MAX_CONCURRENT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("ENCODER_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid ENCODER_MAX_RETRIES")
		return nil, err
	}

	return &EncoderCfg{
		BaseURL:       baseURL,
		APIKey:        getEnv("ENCODER_API_KEY"),
		Model:         getEnvOrDefault("ENCODER_MODEL", defaultModel),
		Dim:           dim,
		MaxConcurrent: maxConcurrent,
		MaxRetries:    maxRetries,
		Timeout:       timeout,
	}, nil
}

func loadRecsCfg() (*RecsCfg, error) {
	const (
		defaultLimit         = 10
		defaultCandidatePool = 200
	)

	limit, err := parseIntEnv("RECS_DEFAULT_LIMIT", defaultLimit)
	if err != nil {
		return nil, e.Wrap("RECS_DEFAULT_LIMIT", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("RECS_DEFAULT_LIMIT must be positive, got %d", limit)
	}

	pool, err := parseIntEnv("RECS_CANDIDATE_POOL", defaultCandidatePool)
	if err != nil {
		return nil, e.Wrap("RECS_CANDIDATE_POOL", err)
	}
	if pool <= 0 {
		return nil, fmt.Errorf("RECS_CANDIDATE_POOL must be positive, got %d", pool)
	}

	return &RecsCfg{
		DefaultLimit:  limit,
		CandidatePool: pool,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	return strconv.Atoi(v)
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	return strconv.ParseBool(v)
}
