package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCost(t *testing.T) {
	assert.InDelta(t, 2.00, Cost(10, 0.20), 1e-9)
	assert.InDelta(t, 0, Cost(0, 0.20), 1e-9)
	assert.InDelta(t, 0, Cost(10, 0), 1e-9)
	assert.InDelta(t, 54.0, Cost(180, 0.30), 1e-9)
}
