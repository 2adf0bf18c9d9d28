// Package ident builds the human-readable identifiers attached to inventory
// records.
package ident

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const itemIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// itemIDSuffixLen is the number of random characters after the timestamp.
const itemIDSuffixLen = 6

// GenerateTag returns the device tag "<schoolCode>/<itemRecordID>/<deviceType>"
// with the device type lowercased. The school code is not validated.
func GenerateTag(schoolCode string, itemRecordID int64, deviceType string) string {
	return schoolCode + "/" + strconv.FormatInt(itemRecordID, 10) + "/" + strings.ToLower(deviceType)
}

// Generator produces standalone item ids of the form
// "INV-<epoch millis>-<6 uppercase alphanumerics>". No existence check is
// made against the store.
type Generator struct {
	Now  func() time.Time
	Rand io.Reader
}

var defaultGenerator = Generator{Now: time.Now, Rand: rand.Reader}

// NewItemID returns an item id using the wall clock and crypto/rand.
func NewItemID() (string, error) {
	return defaultGenerator.NewItemID()
}

// NewItemID returns a fresh item id.
func (g Generator) NewItemID() (string, error) {
	buf := make([]byte, itemIDSuffixLen)
	if _, err := io.ReadFull(g.Rand, buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = itemIDAlphabet[int(b)%len(itemIDAlphabet)]
	}
	return fmt.Sprintf("INV-%d-%s", g.Now().UnixMilli(), buf), nil
}
