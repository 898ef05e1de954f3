package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	App        *AppCfg
	Http       *HTTPConfig
	Db         *PGDBCfg
	Redis      *RedisCfg
	Kafka      *KafkaCfg
	Minio      *MinIOCfg
	Smtp       *SmtpCfg
	Imap       *ImapCfg
	Classifier *ClassifierCfg
	Watcher    *WatcherCfg
}

// AppCfg содержит общие настройки приложения.
type AppCfg struct {
	FrontendURL          string // Базовый URL фронтенда для ссылок подтверждения
	AdminEmail           string // Адрес оператора, получающего уведомления
	OrderCodeMaxAttempts int    // Лимит попыток генерации уникального кода заказа
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
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductsTTL time.Duration
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
	BucketName        string // Бакет для архива обработанных писем
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

// SmtpCfg — учётные данные исходящей почты.
// Адрес User одновременно служит отправителем всех писем.
type SmtpCfg struct {
	Host     string
	Port     int
	User     string
	Password string
}

// ImapCfg — доступ к почтовому ящику, который опрашивает watcher.
// Логин и пароль общие со SMTP: система работает с одним почтовым аккаунтом.
type ImapCfg struct {
	Host     string
	Port     int
	User     string
	Password string
}

type ClassifierCfg struct {
	URL        string
	Token      string
	MaxRetries int
}

type WatcherCfg struct {
	Schedule  string  // cron-выражение запуска (поддерживается @every)
	Threshold float64 // Минимальный score метки "order confirmation"
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
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

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	smtp, err := loadSmtpCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imap, err := loadImapCfg(smtp)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	classifier, err := loadClassifierCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	watcher, err := loadWatcherCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	app, err := loadAppCfg(smtp)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:        app,
		Http:       http,
		Db:         db,
		Redis:      redis,
		Kafka:      kafka,
		Minio:      minio,
		Smtp:       smtp,
		Imap:       imap,
		Classifier: classifier,
		Watcher:    watcher,
	}, nil
}

func loadAppCfg(smtp *SmtpCfg) (*AppCfg, error) {
	const defaultOrderCodeMaxAttempts = 10

	frontendURL := getEnv("FRONTEND_URL")
	if frontendURL == "" {
		return nil, fmt.Errorf("FRONTEND_URL environment variable is required")
	}

	maxAttempts, err := parseIntEnv("ORDER_CODE_MAX_ATTEMPTS", defaultOrderCodeMaxAttempts)
	if err != nil {
		return nil, e.Wrap("ORDER_CODE_MAX_ATTEMPTS", err)
	}

	return &AppCfg{
		FrontendURL:          strings.TrimRight(frontendURL, "/"),
		AdminEmail:           getEnvOrDefault("ADMIN_EMAIL", smtp.User),
		OrderCodeMaxAttempts: maxAttempts,
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
		defaultProductsTTL  = 3 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
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

	productsTTL, err := parseDurationEnv("PRODUCTS_TTL", defaultProductsTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCTS_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductsTTL: productsTTL,
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

	networkMode := getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode)

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       networkMode,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	bucket := getEnv("MAIL_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("MAIL_BUCKET_NAME environment variable is required")
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadSmtpCfg() (*SmtpCfg, error) {
	const (
		defaultHost = "smtp.gmail.com"
		defaultPort = 587
	)

	user := getEnv("SMTP_USER")
	if user == "" {
		return nil, fmt.Errorf("SMTP_USER environment variable is required")
	}

	password := getEnv("SMTP_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("SMTP_PASSWORD environment variable is required")
	}

	port, err := parseIntEnv("SMTP_PORT", defaultPort)
	if err != nil {
		return nil, e.Wrap("SMTP_PORT", err)
	}

	return &SmtpCfg{
		Host:     getEnvOrDefault("SMTP_HOST", defaultHost),
		Port:     port,
		User:     user,
		Password: password,
	}, nil
}

func loadImapCfg(smtp *SmtpCfg) (*ImapCfg, error) {
	const (
		defaultHost = "imap.gmail.com"
		defaultPort = 993
	)

	port, err := parseIntEnv("IMAP_PORT", defaultPort)
	if err != nil {
		return nil, e.Wrap("IMAP_PORT", err)
	}

	return &ImapCfg{
		Host:     getEnvOrDefault("IMAP_HOST", defaultHost),
		Port:     port,
		User:     getEnvOrDefault("IMAP_USER", smtp.User),
		Password: getEnvOrDefault("IMAP_PASSWORD", smtp.Password),
	}, nil
}

func loadClassifierCfg() (*ClassifierCfg, error) {
	const (
		defaultURL        = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"
		defaultMaxRetries = 3
	)

	maxRetries, err := parseIntEnv("CLASSIFIER_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("CLASSIFIER_MAX_RETRIES", err)
	}

	return &ClassifierCfg{
		URL:        getEnvOrDefault("CLASSIFIER_URL", defaultURL),
		Token:      getEnv("CLASSIFIER_TOKEN"),
		MaxRetries: maxRetries,
	}, nil
}

func loadWatcherCfg(log logger.Logger) (*WatcherCfg, error) {
	const (
		defaultSchedule  = "@every 1m"
		defaultThreshold = 0.7
	)

	threshold := defaultThreshold
	if v := os.Getenv("CONFIRMATION_THRESHOLD"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Errorf(err, "invalid CONFIRMATION_THRESHOLD")
			return nil, err
		}
		threshold = parsed
	}

	return &WatcherCfg{
		Schedule:  getEnvOrDefault("WATCHER_SCHEDULE", defaultSchedule),
		Threshold: threshold,
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

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
