package main

import (
	"testing"
	"time"

	"github.com/cargonote/cargonote/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBackupName(t *testing.T) {
	now := time.Date(2024, 3, 10, 22, 15, 0, 0, time.UTC)
	assert.Equal(t, "cargo_backup_20240310.json", defaultBackupName(now))
}

func TestCountLine(t *testing.T) {
	counts := map[model.Type]int{
		model.TypeExpense:   3,
		model.TypeTransport: 12,
		model.TypeFuel:      2,
	}

	// Counts render in type display order, not map order.
	assert.Equal(t, "화물운송 12건 · 주유소 2건 · 지출 3건", countLine(counts))
	assert.Equal(t, "", countLine(nil))
}
