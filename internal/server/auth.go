package server

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/renato0307/idevman/internal/logging"
)

// loadAuthorizedKeys returns the wire encoding of every key in an authorized_keys file.
// Lines that do not parse are skipped.
func loadAuthorizedKeys(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authorized_keys: %w", err)
	}

	var keys [][]byte
	for len(bytes.TrimSpace(data)) > 0 {
		key, _, _, rest, err := gossh.ParseAuthorizedKey(data)
		if err != nil {
			// ParseAuthorizedKey only fails once no parsable line is left
			logging.Logger.Debug("No more authorized keys", "path", path, "error", err)
			break
		}
		keys = append(keys, key.Marshal())
		data = rest
	}
	return keys, nil
}

// isKeyAuthorized reports whether clientKey is listed in authorized_keys.
// The file is read on every attempt so edits apply without a restart.
func isKeyAuthorized(clientKey ssh.PublicKey, authorizedKeysPath string) bool {
	keys, err := loadAuthorizedKeys(authorizedKeysPath)
	if err != nil {
		logging.Logger.Warn("Cannot check SSH key", "error", err, "path", authorizedKeysPath)
		return false
	}

	wire := clientKey.Marshal()
	for _, key := range keys {
		if bytes.Equal(wire, key) {
			return true
		}
	}
	return false
}

// getKeyFingerprint returns "MD5:xx:xx:..." for the audit log
func getKeyFingerprint(key ssh.PublicKey) string {
	return "MD5:" + gossh.FingerprintLegacyMD5(key)
}
