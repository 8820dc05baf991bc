package reliability

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const localBackupsToKeep = 5

// BackupJob runs the nightly backup: local snapshots always, cloud upload
// and rotation when a bucket is configured.
type BackupJob struct {
	backupService *BackupService
	cloudService  *CloudBackupService // nil when no bucket is configured
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates the backup job. cloudService may be nil.
func NewBackupJob(backupService *BackupService, cloudService *CloudBackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backupService: backupService,
		cloudService:  cloudService,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job identifier.
func (j *BackupJob) Name() string {
	return "ledger_backup"
}

// Run performs the backup cycle.
func (j *BackupJob) Run() error {
	if _, err := j.backupService.BackupAll(); err != nil {
		return err
	}
	if err := j.backupService.PruneLocal(localBackupsToKeep); err != nil {
		j.log.Warn().Err(err).Msg("Local backup pruning failed")
	}

	if j.cloudService == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := j.cloudService.CreateAndUpload(ctx); err != nil {
		return err
	}
	if err := j.cloudService.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	return nil
}
