package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxNamePathLength bounds a slash-separated chain of folder names
	// ("Projects/2024/Reports") accepted by EnsureFolderPath.
	MaxNamePathLength = 4096

	// MaxMimeTypeLength bounds the stored MIME type string.
	MaxMimeTypeLength = 255

	// MaxFolderDepth is the deepest a folder may sit (root = 0). Every level
	// adds one id segment to the materialized path of all folders below it.
	MaxFolderDepth = 64

	// MaxRequestBodyBytes caps JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
