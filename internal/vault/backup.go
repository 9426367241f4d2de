package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupFiles copies the given vault-relative files into a timestamped
// directory under the vault's state dir before a destructive operation.
// Returns the backup directory's vault-relative path.
func BackupFiles(vaultPath string, relPaths []string) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	backupRel := filepath.Join(StateDirName, "backups", stamp)
	backupDir := filepath.Join(vaultPath, backupRel)

	for _, rel := range relPaths {
		src := filepath.Join(vaultPath, filepath.FromSlash(rel))
		dst := filepath.Join(backupDir, filepath.FromSlash(rel))

		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return "", fmt.Errorf("create backup dir: %w", err)
		}
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("backup %s: %w", rel, err)
		}
	}

	return filepath.ToSlash(backupRel), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
