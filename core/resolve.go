package core

import (
	"path"
	"strings"
)

// DefaultModsFolder is the folder (relative to pack.toml) that downloaded files are written to
const DefaultModsFolder = "mods"

// ResolveOutputPath returns the output path of a downloaded file from its file name.
// Paths are stored in forward slash format relative to pack.toml.
func ResolveOutputPath(fileName string, modsFolder string) string {
	return CleanModsFolder(modsFolder) + "/" + fileName
}

// CleanModsFolder normalises a mods folder to a forward slash path that can't escape the pack directory
func CleanModsFolder(modsFolder string) string {
	folder := strings.Trim(path.Clean("/"+strings.ReplaceAll(modsFolder, "\\", "/")), "/")
	if folder == "" {
		return DefaultModsFolder
	}
	return folder
}

// ValidOutputPath reports whether p is a mods folder (as produced by CleanModsFolder) followed by a single file name
func ValidOutputPath(p string) bool {
	dir, file := path.Split(p)
	if len(dir) == 0 || len(file) == 0 || file == "." || file == ".." || strings.ContainsRune(file, '\\') {
		return false
	}
	dir = strings.TrimSuffix(dir, "/")
	return CleanModsFolder(dir) == dir
}
