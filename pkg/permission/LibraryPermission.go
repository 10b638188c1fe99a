package permission

import (
	"io"
	"log/slog"
	"os"

	"github.com/adampresley/imagesearch/pkg/services"
)

type LibraryPermissionConfig struct {
	AllowLibraryAccess bool
	SettingsService    services.SettingsServicer
}

/*
LibraryPermission grants ReadLibrary when access is allowed by
configuration and the library folder from settings can be listed.
*/
type LibraryPermission struct {
	allowLibraryAccess bool
	settingsService    services.SettingsServicer
}

func NewLibraryPermission(config LibraryPermissionConfig) LibraryPermission {
	return LibraryPermission{
		allowLibraryAccess: config.AllowLibraryAccess,
		settingsService:    config.SettingsService,
	}
}

func (p LibraryPermission) CheckGranted(capability Capability) bool {
	if capability != ReadLibrary || !p.allowLibraryAccess {
		return false
	}

	libraryPath, ok := p.libraryPath()

	if !ok {
		return false
	}

	return canList(libraryPath)
}

/*
Request creates the library folder if it is missing, then checks again.
*/
func (p LibraryPermission) Request(capability Capability, callback func(granted bool)) {
	go func() {
		if capability != ReadLibrary || !p.allowLibraryAccess {
			slog.Warn("library access is not allowed by configuration", "capability", capability)
			callback(false)
			return
		}

		libraryPath, ok := p.libraryPath()

		if !ok {
			slog.Warn("no library path configured")
			callback(false)
			return
		}

		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			if err = os.MkdirAll(libraryPath, 0755); err != nil {
				slog.Error("could not create library folder", "error", err, "path", libraryPath)
				callback(false)
				return
			}
		}

		callback(canList(libraryPath))
	}()
}

func (p LibraryPermission) libraryPath() (string, bool) {
	settings, err := p.settingsService.Read()

	if err != nil {
		slog.Error("error reading settings while checking library permission", "error", err)
		return "", false
	}

	if settings.LibraryPath == "" {
		return "", false
	}

	return settings.LibraryPath, true
}

func canList(dirPath string) bool {
	f, err := os.Open(dirPath)

	if err != nil {
		return false
	}

	defer f.Close()

	info, err := f.Stat()

	if err != nil || !info.IsDir() {
		return false
	}

	if _, err = f.Readdirnames(1); err != nil && err != io.EOF {
		return false
	}

	return true
}
