package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"gorm.io/gorm"
)

// BackupDatabase attempts to create a SQL dump using mysqldump if it's available on PATH.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	args := []string{os.Getenv("DB_BACKUP_FLAGS")}
	cmd := exec.CommandContext(context.Background(), "mysqldump", args...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup runs AutoMigrate after attempting a best-effort
// backup when DB_BACKUP_PATH is set.
func RunMigrationsWithBackup(db *gorm.DB, models ...interface{}) error {
	if backupPath := os.Getenv("DB_BACKUP_PATH"); backupPath != "" {
		go func() {
			_ = BackupDatabase(backupPath)
		}()
		// allow a small window for the backup to start
		time.Sleep(500 * time.Millisecond)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(models...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
