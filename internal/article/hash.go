// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashContent fingerprints raw converter output so ingestion can skip
// manuscripts that have not changed since the last run.
func HashContent(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
