package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupManager snapshots the database file into a backups directory next to it.
type BackupManager struct {
	store      *SQLiteStorage
	backupsDir string
}

// BackupMetadata is written beside each snapshot as <id>.meta.json.
type BackupMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
}

// BackupInfo summarizes a snapshot for listing.
type BackupInfo struct {
	CreatedAt     time.Time
	ID            string
	Description   string
	FileSize      int64
	Categories    int
	Transactions  int
	Budgets       int
	SchemaVersion int
}

// Backup errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrBackupExists    = errors.New("backup already exists")
	ErrInvalidBackupID = errors.New("invalid backup id: cannot contain path separators")
	ErrMemoryDatabase  = errors.New("in-memory databases cannot be backed up")
)

var backupTables = []string{"categories", "transactions", "budgets"}

const (
	backupIDTimeLayout  = "2006-01-02-150405"
	backupFileExtension = ".db"
	backupMetaExtension = ".meta.json"
)

// NewBackupManager creates the backups directory beside the store's database file.
func NewBackupManager(store *SQLiteStorage) (*BackupManager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParameter)
	}
	if store.dbPath == memoryPath {
		return nil, ErrMemoryDatabase
	}

	dir := filepath.Join(filepath.Dir(store.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{store: store, backupsDir: dir}, nil
}

// Dir returns the directory holding snapshots.
func (bm *BackupManager) Dir() string {
	return bm.backupsDir
}

// Create snapshots the database. An empty id is generated from the current time.
func (bm *BackupManager) Create(ctx context.Context, id, description string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		id = "backup-" + time.Now().Format(backupIDTimeLayout)
	}
	if err := validateBackupID(id); err != nil {
		return nil, err
	}

	snapshotPath := bm.snapshotPath(id)
	if _, err := os.Stat(snapshotPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, id)
	}

	version, err := bm.schemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := bm.rowCounts(ctx)
	if err != nil {
		return nil, err
	}

	// VACUUM INTO writes a consistent, compacted copy even while WAL is active.
	if _, err := bm.store.db.ExecContext(ctx, "VACUUM INTO ?", snapshotPath); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}

	stat, err := os.Stat(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	metadata := BackupMetadata{
		ID:            id,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: version,
	}
	if err := saveMetadata(bm.metadataPath(id), metadata); err != nil {
		if rmErr := os.Remove(snapshotPath); rmErr != nil {
			slog.Error("failed to remove backup after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save backup metadata: %w", err)
	}

	slog.Info("database backed up", "id", id, "path", snapshotPath, "bytes", stat.Size())
	info := metadata.info()
	return &info, nil
}

// List returns every backup, newest first. Unreadable metadata files are skipped.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.backupsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupMetaExtension) {
			continue
		}
		metadata, err := loadMetadata(filepath.Join(bm.backupsDir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, metadata.info())
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore replaces the database file with a snapshot. It closes the store first;
// the store must not be used afterwards and the caller reopens the path.
func (bm *BackupManager) Restore(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	snapshotPath := bm.snapshotPath(id)
	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}
	if err := verifyIntegrity(snapshotPath); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}

	if err := bm.store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	dbPath := bm.store.dbPath
	safety := dbPath + ".restore-backup"
	if err := copyFile(dbPath, safety); err != nil {
		return fmt.Errorf("failed to preserve current database: %w", err)
	}

	if err := copyFile(snapshotPath, dbPath); err != nil {
		if restoreErr := copyFile(safety, dbPath); restoreErr != nil {
			slog.Error("failed to put original database back after restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	if err := os.Remove(safety); err != nil {
		slog.Warn("failed to remove pre-restore copy", "path", safety, "error", err)
	}
	slog.Info("database restored", "id", id, "path", dbPath)
	return nil
}

// Delete removes a snapshot and its metadata.
func (bm *BackupManager) Delete(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	if err := os.Remove(bm.snapshotPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	if err := os.Remove(bm.metadataPath(id)); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove backup metadata", "id", id, "error", err)
	}
	return nil
}

func (bm *BackupManager) snapshotPath(id string) string {
	return filepath.Join(bm.backupsDir, id+backupFileExtension)
}

func (bm *BackupManager) metadataPath(id string) string {
	return filepath.Join(bm.backupsDir, id+backupMetaExtension)
}

func (bm *BackupManager) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := bm.store.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (bm *BackupManager) rowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(backupTables))
	for _, table := range backupTables {
		var n int
		// #nosec G202 - table names come from a fixed list
		if err := bm.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (m BackupMetadata) info() BackupInfo {
	return BackupInfo{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		Description:   m.Description,
		FileSize:      m.FileSize,
		Categories:    m.RowCounts["categories"],
		Transactions:  m.RowCounts["transactions"],
		Budgets:       m.RowCounts["budgets"],
		SchemaVersion: m.SchemaVersion,
	}
}

func validateBackupID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidBackupID
	}
	return nil
}

func verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close backup database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported %s", result)
	}
	return nil
}

// copyFile writes through a temporary file and renames it into place.
func copyFile(src, dst string) error {
	source, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	tmp := dst + ".tmp"
	destination, err := os.Create(filepath.Clean(tmp))
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := destination.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func saveMetadata(path string, metadata BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadMetadata(path string) (*BackupMetadata, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var metadata BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}
