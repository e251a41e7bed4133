package clientdata

import "github.com/rs/zerolog"

// Cleanup removes expired entries from all cache tables. The CLI runs it
// opportunistically at startup; failures are logged and ignored since a
// bloated cache is not worth failing a command over.
func Cleanup(repo *Repository, log zerolog.Logger) {
	results, err := repo.DeleteAllExpired()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to delete expired cache entries")
		return
	}

	var totalDeleted int64
	for _, count := range results {
		totalDeleted += count
	}
	if totalDeleted > 0 {
		log.Debug().
			Int64("total_deleted", totalDeleted).
			Msg("Cache cleanup completed")
	}
}
