package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// DefaultLimit is applied when a caller asks for a page of size zero or less.
const DefaultLimit = 20

// MaxLimit caps the page size.
const MaxLimit = 200

// EntryCursor identifies the last ledger entry of a page in listing order
// (posted date, creation time, entry ID).
type EntryCursor struct {
	PostedDate time.Time
	CreatedAt  time.Time
	EntryID    int64
}

// EncodeToken creates a base64 encoded token from an entry cursor.
func EncodeToken(cursor EntryCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%d",
		cursor.PostedDate.UTC().Format(timeFormat),
		cursor.CreatedAt.UTC().Format(timeFormat),
		cursor.EntryID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into an entry cursor.
func DecodeToken(token string) (EntryCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.Split(string(decodedBytes), "|")
	if len(parts) != 3 {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	postedDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (posted date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	entryID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry id parse): %w", err)
	}

	return EntryCursor{PostedDate: postedDate, CreatedAt: createdAt, EntryID: entryID}, nil
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
