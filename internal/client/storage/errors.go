package storage

import (
	"errors"
	"strings"
	"syscall"
)

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrSnapshotNotFound indicates that no local snapshot has been saved yet
	ErrSnapshotNotFound = errors.New("local snapshot not found")

	// ErrQueueItemNotFound indicates that queue item was not found
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrQuotaExceeded indicates that persistent storage ran out of space.
	// Ядро обязано продолжить работу в памяти с degraded-флагом.
	ErrQuotaExceeded = errors.New("persistent storage quota exceeded")
)

// IsQuotaExceeded распознает исчерпание квоты в ошибках нижнего уровня.
// BoltDB отдает системный ENOSPC из mmap/write-пути без собственного
// sentinel, поэтому дополнительно сверяем текст.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, syscall.ENOSPC) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left on device") ||
		strings.Contains(msg, "file too large") ||
		strings.Contains(msg, "mmap allocate error")
}
