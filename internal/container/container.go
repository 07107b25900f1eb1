package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/classhub/user-service/config"
	"github.com/classhub/user-service/internal/infrastructure/rabbitmq"
	"github.com/classhub/user-service/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	tokenCodec *helpers.TokenCodec
	publisher  *rabbitmq.Publisher
)

func SetConfig(c *config.Config)         { cfg = c }
func GetConfig() *config.Config          { return cfg }
func SetLogger(l *logrus.Logger)         { logger = l }
func GetLogger() *logrus.Logger          { return logger }
func SetPGPool(p *pgxpool.Pool)          { pgPool = p }
func GetPGPool() *pgxpool.Pool           { return pgPool }
func SetRedis(r *redis.Client)           { redisClient = r }
func GetRedis() *redis.Client            { return redisClient }
func SetES(c *elasticsearch.Client)      { esClient = c }
func GetES() *elasticsearch.Client       { return esClient }
func SetCodec(c *helpers.TokenCodec)     { tokenCodec = c }
func GetCodec() *helpers.TokenCodec      { return tokenCodec }
func SetPublisher(p *rabbitmq.Publisher) { publisher = p }
func GetPublisher() *rabbitmq.Publisher  { return publisher }
