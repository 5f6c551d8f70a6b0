package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncSetTakeClearsEntryAndReportsPresence(t *testing.T) {
	var s syncSet
	assert.False(t, s.take(1), "take on an empty set must report false")

	s.add(1)
	assert.True(t, s.take(1))
	assert.False(t, s.take(1), "a second take for the same id must report false")
}

func TestSyncSetRemoveWithoutTake(t *testing.T) {
	var s syncSet
	s.add(1)
	s.remove(1)
	assert.False(t, s.take(1))
}

func TestSyncSetIndependentPerID(t *testing.T) {
	var s syncSet
	s.add(1)
	s.add(2)
	assert.True(t, s.take(1))
	assert.True(t, s.take(2))
}
