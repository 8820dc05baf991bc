// Package reliability covers ledger durability: local database snapshots and
// scheduled cloud backups of the durable databases.
package reliability

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/database"
)

// BackupService creates consistent local snapshots of the databases.
// The cache database is excluded: it is rebuilt from upstream APIs.
type BackupService struct {
	databases map[string]*database.DB
	backupDir string
	log       zerolog.Logger
}

// NewBackupService creates a backup service over the durable databases.
func NewBackupService(databases map[string]*database.DB, backupDir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		databases: databases,
		backupDir: backupDir,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// DatabaseNames returns the names of the databases covered by backups,
// sorted for stable archive ordering.
func (s *BackupService) DatabaseNames() []string {
	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BackupDatabase snapshots one database to destPath using VACUUM INTO,
// which produces a consistent copy without blocking writers.
func (s *BackupService) BackupDatabase(name, destPath string) error {
	db, ok := s.databases[name]
	if !ok {
		return fmt.Errorf("unknown database: %s", name)
	}

	s.log.Debug().Str("database", name).Str("dest", destPath).Msg("Snapshotting database")
	return db.Backup(destPath)
}

// BackupAll snapshots every covered database into the backup directory,
// one timestamped subdirectory per run. Returns the snapshot directory.
func (s *BackupService) BackupAll() (string, error) {
	runDir := filepath.Join(s.backupDir, time.Now().Format("2006-01-02-150405"))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, name := range s.DatabaseNames() {
		destPath := filepath.Join(runDir, name+".db")
		if err := s.BackupDatabase(name, destPath); err != nil {
			return "", fmt.Errorf("failed to snapshot %s: %w", name, err)
		}
	}

	s.log.Info().Str("dir", runDir).Msg("Local backup completed")
	return runDir, nil
}

// PruneLocal removes local snapshot directories beyond keep, oldest first.
func (s *BackupService) PruneLocal(keep int) error {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			runs = append(runs, entry.Name())
		}
	}
	sort.Strings(runs) // timestamp-formatted names sort chronologically

	for len(runs) > keep {
		victim := filepath.Join(s.backupDir, runs[0])
		if err := os.RemoveAll(victim); err != nil {
			return fmt.Errorf("failed to prune %s: %w", victim, err)
		}
		s.log.Info().Str("dir", victim).Msg("Pruned old local backup")
		runs = runs[1:]
	}

	return nil
}
