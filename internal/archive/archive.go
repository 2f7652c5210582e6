package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sqliteSidecars are the files SQLite keeps next to a database in WAL mode
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// ArchiveDatabase moves the state database to an archive directory with a
// timestamp, which leaves the application with no saved words. The
// database must not be open while it is archived. It returns the archive path.
func ArchiveDatabase(dbPath string) (string, error) {
	// Check if the database exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", dbPath)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(dbPath)
	stem := strings.TrimSuffix(filepath.Base(dbPath), ext)

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive database: %w", err)
	}

	for _, suffix := range sqliteSidecars {
		sidecar := dbPath + suffix
		if _, err := os.Stat(sidecar); err != nil {
			continue
		}
		if err := os.Rename(sidecar, archivePath+suffix); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", filepath.Base(sidecar), err)
		}
	}

	return archivePath, nil
}
