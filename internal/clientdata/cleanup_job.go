package clientdata

import (
	"github.com/rs/zerolog"
)

// CleanupJob removes expired entries from all client data tables.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo *Repository
	log  zerolog.Logger
}

// NewCleanupJob creates a new client data cleanup job.
func NewCleanupJob(repo *Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("job", "client_data_cleanup").Logger(),
	}
}

// Name returns the job name for scheduler logging.
func (j *CleanupJob) Name() string {
	return "client_data_cleanup"
}

// Run executes the cleanup job, removing expired entries from all tables.
func (j *CleanupJob) Run() error {
	var totalDeleted int64
	for _, table := range AllTables {
		deleted, err := j.repo.DeleteExpired(table, CleanupGrace)
		if err != nil {
			j.log.Error().Err(err).Str("table", table).Msg("Failed to delete expired client data")
			return err
		}
		if deleted > 0 {
			j.log.Info().
				Str("table", table).
				Int64("deleted", deleted).
				Msg("Cleaned up expired cache entries")
			totalDeleted += deleted
		}
	}

	if totalDeleted > 0 {
		j.log.Info().
			Int64("total_deleted", totalDeleted).
			Msg("Client data cleanup completed")
	}

	return nil
}
