package archive

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clintab/clintab/internal/model"
)

// Archive provides SQLite-based storage for rendered artifacts.
// It manages the connection and provides save, listing, and diff
// operations over the render catalog.
//
// Design decision: We use a single database file for all reports rather
// than one file per report. This keeps cross-report listing queries
// trivial and makes backup/restore a single-file operation.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an Archive at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, "clintab.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection keeps
	// writes serialized without busy-retry loops.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- Renders catalog one artifact per row, full artifact as JSON
	CREATE TABLE IF NOT EXISTS renders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report TEXT NOT NULL,
		source_path TEXT,
		source_digest TEXT,
		title TEXT NOT NULL,
		format TEXT NOT NULL,
		artifact_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_renders_report ON renders(report);
	CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
	CREATE INDEX IF NOT EXISTS idx_renders_digest ON renders(source_digest);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// RenderRecord contains summary information about one archived render.
// This is used for displaying render history without loading the full
// artifact.
type RenderRecord struct {
	// ID is the unique identifier of the render in the archive.
	ID int64

	// Report is the report name the render belongs to.
	Report string

	// SourcePath is the input data file the render was built from.
	SourcePath string

	// SourceDigest is the SHA3-256 digest of the input data, used to
	// tell data cuts apart.
	SourceDigest string

	// Title is the artifact's table title.
	Title string

	// Format is the output format the render was written in.
	Format string

	// CreatedAt is when the render was archived.
	CreatedAt time.Time
}

// SaveRender stores one rendered artifact under the given report name.
func (a *Archive) SaveRender(ctx context.Context, report, format string, artifact *model.Artifact) (int64, error) {
	artifactJSON, err := json.Marshal(artifact)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize artifact: %w", err)
	}

	query := `
	INSERT INTO renders (report, source_path, source_digest, title, format, artifact_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := a.db.ExecContext(ctx, query,
		report,
		artifact.Source.Path,
		artifact.Source.Digest,
		artifact.Title,
		format,
		string(artifactJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save render: %w", err)
	}

	return result.LastInsertId()
}

// LatestRender retrieves the most recent archived artifact for a report.
// It returns nil with no error when the report has no archived renders.
func (a *Archive) LatestRender(ctx context.Context, report string) (*model.Artifact, error) {
	query := `
	SELECT artifact_json FROM renders
	WHERE report = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var artifactJSON string
	err := a.db.QueryRowContext(ctx, query, report).Scan(&artifactJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest render: %w", err)
	}

	var artifact model.Artifact
	if err := json.Unmarshal([]byte(artifactJSON), &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	return &artifact, nil
}

// RenderByID retrieves an archived artifact by its archive ID.
func (a *Archive) RenderByID(ctx context.Context, id int64) (*model.Artifact, error) {
	query := `
	SELECT artifact_json FROM renders
	WHERE id = ?
	`

	var artifactJSON string
	err := a.db.QueryRowContext(ctx, query, id).Scan(&artifactJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("render %d: %w", id, ErrRenderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render: %w", err)
	}

	var artifact model.Artifact
	if err := json.Unmarshal([]byte(artifactJSON), &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	return &artifact, nil
}

// RenderHistory retrieves render metadata for a report, newest first.
// This is more efficient than loading full artifacts when only metadata
// is needed.
func (a *Archive) RenderHistory(ctx context.Context, report string) ([]RenderRecord, error) {
	query := `
	SELECT id, report, source_path, source_digest, title, format, created_at
	FROM renders
	WHERE report = ?
	ORDER BY id DESC
	`

	rows, err := a.db.QueryContext(ctx, query, report)
	if err != nil {
		return nil, fmt.Errorf("failed to get render history: %w", err)
	}
	defer rows.Close()

	var results []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		var sourcePath, sourceDigest sql.NullString
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.Report, &sourcePath, &sourceDigest,
			&rec.Title, &rec.Format, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan render record: %w", err)
		}

		rec.SourcePath = sourcePath.String
		rec.SourceDigest = sourceDigest.String
		rec.CreatedAt = parseTimestamp(createdAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// ListReports returns the names of all archived reports.
func (a *Archive) ListReports(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT report FROM renders
	ORDER BY report
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []string
	for rows.Next() {
		var report string
		if err := rows.Scan(&report); err != nil {
			return nil, fmt.Errorf("failed to scan report name: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// Digest returns the SHA3-256 hex digest of the given data. The CLI
// digests raw CSV bytes so archived renders can be traced back to the
// exact data cut that produced them.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
