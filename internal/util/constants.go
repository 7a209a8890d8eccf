package util

import "time"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Session lifecycle limits.
const (
	// SessionWallClockLimit bounds a session from started_at regardless of
	// pause time; resume past it flips the session to expired.
	SessionWallClockLimit = 24 * time.Hour

	// Resume throttling per session code.
	ResumeAttemptWindow = 15 * time.Minute
	ResumeAttemptLimit  = 20
)

// Speaking upload limits.
const (
	MaxSpeakingDurationSeconds = 300
	MaxSpeakingUploadBytes     = 20 << 20
)

var AllowedAudioExtensions = []string{".webm", ".ogg", ".mp3", ".m4a", ".wav"}
