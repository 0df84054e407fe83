// Package diag implements self-diagnostics, repair and backups for the
// assistant's data files.
package diag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

// keepBackups bounds the backup directory; the oldest are pruned past it.
const keepBackups = 10

// Service checks and repairs the persistent data file.
type Service struct {
	dataPath   string
	configPath string
	backupDir  string
	store      *store.Store
}

func New(dataPath, configPath string, st *store.Store) *Service {
	return &Service{
		dataPath:   dataPath,
		configPath: configPath,
		backupDir:  filepath.Join(filepath.Dir(dataPath), "backups"),
		store:      st,
	}
}

// Diagnose inspects the data file, the config file and the backup directory.
func (s *Service) Diagnose(_ context.Context) (skills.DiagReport, error) {
	var rep skills.DiagReport

	if _, err := os.Stat(s.dataPath); err != nil {
		rep.MissingFiles++
	} else if _, err := s.store.Load(); err != nil {
		rep.ConfigIssues++
	}
	if s.configPath != "" {
		if _, err := os.Stat(s.configPath); err != nil {
			rep.MissingFiles++
		}
	}

	backups, _ := s.listBackups()
	rep.BackupCount = len(backups)

	switch {
	case rep.MissingFiles == 0 && rep.ConfigIssues == 0:
		rep.Status = "HEALTHY"
	case rep.ConfigIssues > 0:
		rep.Status = "CRITICAL"
	default:
		rep.Status = "DEGRADED"
	}
	return rep, nil
}

// Repair recreates a missing or corrupt data file, restoring from the newest
// backup when one exists and starting empty otherwise.
func (s *Service) Repair(ctx context.Context) (string, error) {
	rep, err := s.Diagnose(ctx)
	if err != nil {
		return "", err
	}
	if rep.Status == "HEALTHY" {
		return "All systems check out. Nothing to repair.", nil
	}

	backups, _ := s.listBackups()
	if len(backups) > 0 {
		newest := backups[len(backups)-1]
		data, err := os.ReadFile(newest)
		if err == nil && os.WriteFile(s.dataPath, data, 0o644) == nil {
			return fmt.Sprintf("Data file restored from backup %s.", filepath.Base(newest)), nil
		}
	}

	// No usable backup; reinitialize with an empty document.
	if err := s.store.Save(&store.Document{Schedule: map[string]store.DaySchedule{}}); err != nil {
		return "", fmt.Errorf("reinitialize data file: %w", err)
	}
	return "No usable backup found. The data file has been reinitialized.", nil
}

// CreateBackup copies the data file into the backup directory with a
// timestamped name and prunes old backups.
func (s *Service) CreateBackup(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		return "", fmt.Errorf("read data file: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("assistant_data_%s.json", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if backups, err := s.listBackups(); err == nil && len(backups) > keepBackups {
		for _, old := range backups[:len(backups)-keepBackups] {
			os.Remove(old)
		}
	}
	return name, nil
}

// BackupStatus reports the backup count and the newest backup's name.
func (s *Service) BackupStatus(_ context.Context) (int, string, error) {
	backups, err := s.listBackups()
	if err != nil {
		return 0, "", err
	}
	if len(backups) == 0 {
		return 0, "", nil
	}
	return len(backups), filepath.Base(backups[len(backups)-1]), nil
}

// listBackups returns backup paths sorted oldest first. The timestamped names
// make lexical order chronological.
func (s *Service) listBackups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.backupDir, "assistant_data_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
