package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Logger defines the interface for logging operations within the postgres package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Postgres is a thread-safe wrapper around gorm.DB that provides connection
// monitoring, automatic reconnection, and standardized database operations.
type Postgres struct {
	Client          *gorm.DB
	cfg             Config
	logger          Logger
	mu              *sync.RWMutex
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres creates a new Postgres instance with the provided configuration
// and Logger. It establishes the initial database connection and sets up the
// internal state for connection monitoring and recovery.
func NewPostgres(cfg Config, logger Logger) (*Postgres, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := connectToPostgres(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: initial connection failed: %w", err)
	}

	return &Postgres{
		Client:          conn,
		cfg:             cfg,
		logger:          logger,
		mu:              &sync.RWMutex{},
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}, nil
}

// connectToPostgres establishes a connection to the PostgreSQL database,
// opens it with GORM and configures the connection pool.
func connectToPostgres(logger Logger, postgresConfig Config) (*gorm.DB, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		postgresConfig.Connection.Host,
		postgresConfig.Connection.Port,
		postgresConfig.Connection.User,
		postgresConfig.Connection.Password,
		postgresConfig.Connection.DbName,
		postgresConfig.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(pgConnStr),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	databaseInstance.SetMaxOpenConns(postgresConfig.ConnectionDetails.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(postgresConfig.ConnectionDetails.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(postgresConfig.ConnectionDetails.ConnMaxLifetime)

	logger.Info("Successfully connected to PostgreSQL database", nil, nil)

	return database, nil
}

// DB returns the active gorm client. Callers must not retain the returned
// pointer across reconnections.
func (p *Postgres) DB() *gorm.DB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Client
}

// RetryConnection continuously attempts to reconnect to the PostgreSQL
// database when notified of a connection failure. It operates as a goroutine
// that waits for signals on retryChanSignal before attempting reconnection.
func (p *Postgres) RetryConnection(ctx context.Context, logger Logger) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			logger.Info("Stopping RetryConnection loop due to shutdown signal", nil, nil)
			return
		case <-ctx.Done():
			return
		case <-p.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(logger, p.cfg)
					if err != nil {
						logger.Error("Reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.mu.Lock()
					p.Client = newConn
					p.mu.Unlock()
					logger.Info("Reconnected to PostgreSQL database", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database connection
// and triggers reconnection attempts when necessary.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.logger.Info("Stopping MonitorConnection loop due to shutdown signal", nil, nil)
			return
		case <-ticker.C:
			err := p.healthCheck()
			if err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck pings the database with a 5 second timeout to verify connectivity.
func (p *Postgres) healthCheck() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.Client == nil {
		return fmt.Errorf("database Client is not initialized")
	}

	db, err := p.Client.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// GracefulShutdown stops the monitoring goroutines and closes the underlying
// connection pool.
func (p *Postgres) GracefulShutdown() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	p.mu.RLock()
	defer p.mu.RUnlock()

	db, err := p.Client.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during shutdown: %w", err)
	}
	return db.Close()
}
