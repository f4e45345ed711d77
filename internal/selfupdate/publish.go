package selfupdate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// publisher moves a downloaded binary over the running one, or removes
// it. deferred is true when the change happens after this process exits.
type publisher interface {
	publish(newPath, exePath string) (deferred bool, err error)
	remove(exePath string) (deferred bool, err error)
}

func publisherFor(goos string) publisher {
	if goos == "windows" {
		return powershellPublisher{pid: os.Getpid()}
	}
	return renamePublisher{}
}

// renamePublisher replaces the binary in place. Unix keeps the running
// process's inode alive, so renaming over it is safe.
type renamePublisher struct{}

func (renamePublisher) publish(newPath, exePath string) (bool, error) {
	mode := os.FileMode(0755)
	if info, err := os.Stat(exePath); err == nil {
		mode = info.Mode().Perm() | 0111
	}
	if err := os.Chmod(newPath, mode); err != nil {
		return false, fmt.Errorf("chmod %s: %w", newPath, err)
	}
	if err := os.Rename(newPath, exePath); err != nil {
		return false, fmt.Errorf("replace %s: %w", exePath, err)
	}
	return false, nil
}

func (renamePublisher) remove(exePath string) (bool, error) {
	if err := os.Remove(exePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove %s: %w", exePath, err)
	}
	return false, nil
}

// powershellPublisher schedules the move for after this process exits,
// since Windows locks running executables.
type powershellPublisher struct {
	pid int
}

func (p powershellPublisher) publish(newPath, exePath string) (bool, error) {
	if err := startHidden(PowerShellScript(p.pid, newPath, exePath)); err != nil {
		return false, fmt.Errorf("schedule update: %w", err)
	}
	return true, nil
}

func (p powershellPublisher) remove(exePath string) (bool, error) {
	if err := startHidden(UninstallScript(p.pid, exePath)); err != nil {
		return false, fmt.Errorf("schedule uninstall: %w", err)
	}
	return true, nil
}

func startHidden(script string) error {
	cmd := exec.Command("powershell",
		"-NoProfile",
		"-ExecutionPolicy", "Bypass",
		"-WindowStyle", "Hidden",
		"-Command", script,
	)
	if err := cmd.Start(); err != nil {
		return err
	}
	_ = cmd.Process.Release()
	return nil
}

// PowerShellScript waits for pid to exit and then moves newPath over
// exePath.
func PowerShellScript(pid int, newPath, exePath string) string {
	return fmt.Sprintf("Wait-Process -Id %d; Start-Sleep -Milliseconds 200; Move-Item -Force '%s' '%s'",
		pid, quotePowerShell(newPath), quotePowerShell(exePath))
}

// UninstallScript waits for pid to exit, deletes exePath and drops any
// "Set-Alias eagle" line from the PowerShell profile.
func UninstallScript(pid int, exePath string) string {
	exe := quotePowerShell(exePath)
	return fmt.Sprintf("Wait-Process -Id %d; "+
		"if (Test-Path '%[2]s') { Remove-Item -Force '%[2]s' }; "+
		"if (Test-Path $PROFILE) { $c = Get-Content $PROFILE; "+
		"$c2 = $c | Where-Object { $_ -notmatch 'Set-Alias\\s+eagle' }; "+
		"Set-Content -Path $PROFILE -Value $c2 }",
		pid, exe)
}

// quotePowerShell escapes s for a single-quoted PowerShell string.
func quotePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
