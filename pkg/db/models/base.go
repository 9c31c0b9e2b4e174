package models

import "github.com/google/uuid"

// ensureID assigns a v4 id when the caller did not provide one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// rankOrKeep numbers a child row 1..n by its slice index unless the caller
// already ranked it. Rows written in one statement share created_at, so
// position is what keeps them in insertion order on read.
func rankOrKeep(current, index int) int {
	if current > 0 {
		return current
	}
	return index + 1
}

// PositionOrder is the read order for ranked child rows.
const PositionOrder = "position ASC, created_at ASC, id ASC"
