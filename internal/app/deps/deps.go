package deps

import (
	"context"
	"inboxflow/internal/config"
	dl "inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/notification"
	drl "inboxflow/internal/core/domain/rate_limiter"
	duow "inboxflow/internal/core/domain/unit_of_work"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services/auth"
	"inboxflow/internal/db"
	uow "inboxflow/internal/db/unit_of_work"
	dbuser "inboxflow/internal/db/user"
	"inboxflow/internal/implementations/email"
	"inboxflow/internal/implementations/logging"
	mailsink "inboxflow/internal/implementations/mail_sink"
	passwordhasher "inboxflow/internal/implementations/password_hasher"
	passwordresetsender "inboxflow/internal/implementations/password_reset_sender"
	ratelimiter "inboxflow/internal/implementations/rate_limiter"
	"inboxflow/internal/implementations/smtp"
	tokengenerator "inboxflow/internal/implementations/token_generator"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UnitOfWork              duow.UnitOfWork
	UserRepository          user.UserRepository
	SessionRepository       user.SessionRepository
	PasswordResetRepository user.PasswordResetRepository

	RateLimiter drl.RateLimiter

	NotificationGateway      notification.Gateway
	PasswordResetTokenSender user.PasswordResetTokenSender

	TokenGenerator *tokengenerator.Generator
	PasswordHasher user.PasswordHasher
	PasswordPolicy user.PasswordPolicy
	Authenticator  *auth.Authenticator
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	deps.applyMigrations()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.SessionRepository = dbuser.NewPgxSessionRepository(deps.DB)
	deps.PasswordResetRepository = dbuser.NewPgxPasswordResetRepository(deps.DB)

	if deps.Redis != nil {
		deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	}

	deps.NotificationGateway = deps.initNotificationGateway()
	deps.PasswordResetTokenSender = passwordresetsender.New(
		deps.NotificationGateway,
		deps.Config.PasswordResetURL(),
		deps.Config.PasswordResetTTL,
	)

	deps.TokenGenerator = tokengenerator.NewGenerator()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordPolicy = user.NewPasswordPolicy(deps.Config.PasswordMinLength)
	deps.Authenticator = auth.NewAuthenticator(
		deps.Logger,
		deps.SessionRepository,
		deps.UserRepository,
		deps.TokenGenerator,
		deps.Config.SessionTTL,
		deps.Now,
	)

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.IsProduction)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) applyMigrations() {
	if !deps.Config.MigrateOnStart {
		return
	}
	if err := db.ApplyMigrations(deps.Config.PostgresqlURL); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply migrations.", dl.Entry("err", err))
		panic(err)
	}
	deps.Logger.Info(context.Background(), "Migrations have been applied.")
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is not configured, rate limits are disabled.")
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initNotificationGateway() notification.Gateway {
	cfg := deps.Config
	switch {
	case cfg.SMTPHost != "":
		deps.Logger.Info(context.Background(), "Using SMTP notification gateway.", dl.Entry("host", cfg.SMTPHost))
		return smtp.NewGateway(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	case cfg.AwsEmailSender != "":
		deps.Logger.Info(context.Background(), "Using SES notification gateway.", dl.Entry("region", cfg.AwsRegion))
		return email.NewSESGateway(deps.loadAwsConfig(), cfg.AwsEmailSender)
	default:
		deps.Logger.Warning(context.Background(), "No mail transport is configured, notifications go to the local sink.")
		return mailsink.New(deps.Logger, cfg.IsProduction)
	}
}

func (deps *Deps) loadAwsConfig() aws.Config {
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	}
	if deps.Config.AwsAccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		))
	}
	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		panic(err)
	}
	return cfg
}
