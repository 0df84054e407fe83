package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

func handleAppCommand(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Apps == nil {
		return []string{col.NotConfigured("application management")}, nil
	}
	handled, err := col.Apps.ProcessAppCommand(m.Param("command"))
	if err != nil {
		return nil, fmt.Errorf("app command: %w", err)
	}
	if !handled {
		return []string{fmt.Sprintf("I couldn't map that to an application, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("Done, %s.", col.hon())}, nil
}

func handleCloseActive(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Apps == nil {
		return []string{col.NotConfigured("application management")}, nil
	}
	if err := col.Apps.CloseActiveWindow(); err != nil {
		return nil, fmt.Errorf("close active window: %w", err)
	}
	return []string{fmt.Sprintf("Active window closed, %s.", col.hon())}, nil
}

func handleSelfRepair(ctx context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Diag == nil {
		return []string{col.NotConfigured("self repair")}, nil
	}
	summary, err := col.Diag.Repair(ctx)
	if err != nil {
		return nil, fmt.Errorf("self repair: %w", err)
	}
	return []string{
		fmt.Sprintf("Initiating self repair sequence, %s.", col.hon()),
		summary,
	}, nil
}

func handleDiagnostics(ctx context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Diag == nil {
		return []string{col.NotConfigured("diagnostics")}, nil
	}
	rep, err := col.Diag.Diagnose(ctx)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: %w", err)
	}

	lines := []string{fmt.Sprintf("Diagnostic scan complete, %s. Overall status: %s.",
		col.hon(), strings.ToLower(rep.Status))}
	if rep.MissingFiles > 0 {
		lines = append(lines, fmt.Sprintf("%d expected files are missing.", rep.MissingFiles))
	}
	if rep.ConfigIssues > 0 {
		lines = append(lines, fmt.Sprintf("%d configuration issues detected.", rep.ConfigIssues))
	}
	lines = append(lines, fmt.Sprintf("%d backups are available.", rep.BackupCount))
	return lines, nil
}

func handleCreateBackup(ctx context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Diag == nil {
		return []string{col.NotConfigured("backups")}, nil
	}
	name, err := col.Diag.CreateBackup(ctx)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	return []string{fmt.Sprintf("Backup %s created, %s.", name, col.hon())}, nil
}

func handleBackupStatus(ctx context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Diag == nil {
		return []string{col.NotConfigured("backups")}, nil
	}
	count, latest, err := col.Diag.BackupStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup status: %w", err)
	}
	if count == 0 {
		return []string{fmt.Sprintf("There are no backups yet, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("There are %d backups, %s. The most recent is %s.", count, col.hon(), latest)}, nil
}
