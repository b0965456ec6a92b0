package sql

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Brawl345/matrixweather/logger"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	DefaultNamespace = "matrix-weather-storage"
	DefaultSQLiteDSN = "matrixweather.db"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

var log = logger.New("sql")

// driverNames maps our driver names to the registered database/sql drivers.
var driverNames = map[string]string{
	DriverSQLite:   "sqlite",
	DriverMySQL:    "mysql",
	DriverPostgres: "pgx",
}

// dialects maps database/sql driver names to sql-migrate dialects.
var dialects = map[string]string{
	"sqlite": "sqlite3",
	"mysql":  "mysql",
	"pgx":    "postgres",
}

// New opens the database. An empty dsn selects a local SQLite file, or for
// MySQL the MYSQL_* environment variables.
func New(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	name, ok := driverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if dsn == "" {
		switch driver {
		case DriverSQLite:
			dsn = DefaultSQLiteDSN
		case DriverMySQL:
			dsn = mysqlDSNFromEnv()
		default:
			return nil, fmt.Errorf("DATABASE_URL is required for %s", driver)
		}
	}

	db, err := sqlx.Connect(name, dsn)
	if err != nil {
		return nil, err
	}

	if name == "sqlite" {
		// One writer; also keeps ":memory:" databases alive across queries.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			log.Warn().Err(err).Msg("could not set WAL mode")
		}
	} else {
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	log.Debug().
		Str("driver", name).
		Msg("Database connection established")

	return db, nil
}

// Migrate applies all pending migrations and returns how many ran.
func Migrate(db *sqlx.DB) (int, error) {
	dialect, ok := dialects[db.DriverName()]
	if !ok {
		return 0, fmt.Errorf("no migration dialect for driver %q", db.DriverName())
	}
	migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
	return migrate.Exec(db.DB, dialect, migrationSource, migrate.Up)
}

func mysqlDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("MYSQL_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("MYSQL_PORT"))
	if port == "" {
		port = "3306"
	}
	user := strings.TrimSpace(os.Getenv("MYSQL_USER"))
	password := strings.TrimSpace(os.Getenv("MYSQL_PASSWORD"))
	dbname := strings.TrimSpace(os.Getenv("MYSQL_DB"))
	tls := strings.TrimSpace(os.Getenv("MYSQL_TLS"))
	if tls == "" {
		tls = "false"
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&tls=%s",
		user,
		password,
		host,
		port,
		dbname,
		tls,
	)
}

// upsertQuery builds an insert-or-update keyed on namespace, which must be
// the first column.
func upsertQuery(db *sqlx.DB, table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(placeholders)
	sb.WriteString(")")

	updates := make([]string, 0, len(columns)-1)
	if db.DriverName() == "mysql" {
		for _, c := range columns[1:] {
			updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	} else {
		for _, c := range columns[1:] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		sb.WriteString(" ON CONFLICT (namespace) DO UPDATE SET ")
	}
	sb.WriteString(strings.Join(updates, ", "))

	return db.Rebind(sb.String())
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
