package backups

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/dailycoach/internal/backup"
	"github.com/julianstephens/dailycoach/internal/cli"
	"github.com/julianstephens/dailycoach/internal/storage/postgres"
	"github.com/julianstephens/dailycoach/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store}, dbPath
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	prev := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = prev })
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, dbPath := setupTestContext(t)
	mgr := backup.NewManager(dbPath)

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := ctx.Store.CreateUser("Jan", "j@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	withStdin(t, "n\n")
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(snapshot)}).Run(ctx); err != nil {
		t.Fatalf("cancelled restore failed: %v", err)
	}
	if _, err := ctx.Store.FindUserByEmail("j@example.com"); err != nil {
		t.Fatal("cancelled restore must leave the database untouched")
	}

	withStdin(t, "yes\n")
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(snapshot)}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	if _, err := ctx.Store.FindUserByEmail("j@example.com"); err == nil {
		t.Error("user created after the snapshot should be gone")
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "dailycoach-19990101-0000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Run() error = %v, want not found", err)
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://user@localhost/dailycoach")}
	if err := (&BackupCreateCmd{}).Run(ctx); err != errNotSQLite {
		t.Errorf("create error = %v, want %v", err, errNotSQLite)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != errNotSQLite {
		t.Errorf("list error = %v, want %v", err, errNotSQLite)
	}
}
