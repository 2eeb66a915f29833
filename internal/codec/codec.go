// Package codec отвечает за каноническую сериализацию snapshot и проверку
// целостности: SHA-256 checksum поверх канонического JSON всех полей кроме
// самого checksum, плюс guard версии схемы. Потребитель обязан проверить
// checksum до того как доверять payload.
package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/iudanet/orgsync/internal/models"
)

// Ошибки декодирования. Все фатальны для данного pull: snapshot не мержится,
// локальное состояние остается нетронутым.
var (
	// ErrParse remote payload не является корректным JSON
	ErrParse = errors.New("snapshot parse error")

	// ErrChecksumMismatch checksum не сошелся — данные повреждены
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrSchemaTooNew версия схемы больше поддерживаемой этим клиентом
	ErrSchemaTooNew = errors.New("snapshot schema version is newer than supported")
)

const checksumField = "checksum"

// Encode сериализует snapshot, проставив checksum.
// Checksum считается по каноническому JSON (map с отсортированными ключами)
// всех полей кроме checksum. Вход не мутируется.
func Encode(snapshot *models.Snapshot) ([]byte, string, error) {
	out := snapshot.Clone()
	out.Checksum = ""

	sum, err := computeChecksum(out)
	if err != nil {
		return nil, "", fmt.Errorf("failed to compute checksum: %w", err)
	}
	out.Checksum = sum

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return payload, sum, nil
}

// Decode парсит и валидирует remote payload.
// Возвращает ErrParse / ErrChecksumMismatch / ErrSchemaTooNew —
// все фатальные, вызывающий не должен мержить.
func Decode(raw []byte) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	stored := snapshot.Checksum
	if stored == "" {
		return nil, fmt.Errorf("%w: checksum field is empty", ErrChecksumMismatch)
	}

	verify := snapshot.Clone()
	verify.Checksum = ""
	computed, err := computeChecksum(verify)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute checksum: %w", err)
	}
	if computed != stored {
		return nil, fmt.Errorf("%w: stored %s, computed %s", ErrChecksumMismatch, stored, computed)
	}

	if snapshot.SchemaVersion > models.SchemaVersion {
		return nil, fmt.Errorf("%w: snapshot v%d, client supports v%d",
			ErrSchemaTooNew, snapshot.SchemaVersion, models.SchemaVersion)
	}

	return &snapshot, nil
}

// computeChecksum считает hex SHA-256 канонического JSON snapshot.
// Сериализация через промежуточную map дает стабильный порядок ключей
// независимо от порядка полей структуры.
func computeChecksum(snapshot *models.Snapshot) (string, error) {
	structured, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}

	var canonical map[string]any
	if err := json.Unmarshal(structured, &canonical); err != nil {
		return "", err
	}
	delete(canonical, checksumField)

	payload, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

var trackingKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateShape выполняет легковесные структурные проверки snapshot.
// Непустой список — advisory: он блокирует merge, но не портит локальное
// состояние и не фатален сам по себе.
func ValidateShape(snapshot *models.Snapshot) []string {
	var problems []string

	if snapshot.SchemaVersion <= 0 {
		problems = append(problems, "schemaVersion must be positive")
	}
	if snapshot.Sequence < 0 {
		problems = append(problems, "sequence must not be negative")
	}

	for name, coll := range snapshot.Collections {
		seen := make(map[string]bool, len(coll))
		for i, rec := range coll {
			id := rec.ID()
			if id == "" {
				problems = append(problems,
					fmt.Sprintf("collection %q: record %d has no string id", name, i))
				continue
			}
			if seen[id] {
				problems = append(problems,
					fmt.Sprintf("collection %q: duplicate id %q", name, id))
			}
			seen[id] = true
		}
	}

	for name, set := range snapshot.Tombstones {
		for id, deletedAt := range set {
			if _, err := time.Parse(time.RFC3339, deletedAt); err != nil {
				problems = append(problems,
					fmt.Sprintf("tombstones %q/%q: unparsable deletedAt %q", name, id, deletedAt))
			}
		}
	}

	for date := range snapshot.Tracking {
		if !trackingKeyPattern.MatchString(date) {
			problems = append(problems,
				fmt.Sprintf("tracking: key %q is not a YYYY-MM-DD date", date))
		}
	}

	return problems
}
