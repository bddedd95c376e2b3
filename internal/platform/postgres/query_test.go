package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditions(t *testing.T) {
	var c conditions
	assert.Equal(t, "", c.where())

	c.add("g.status = ?", "open")
	c.add("g.location ILIKE ?", "%lagos%")
	limit := c.next(20)

	assert.Equal(t, " WHERE g.status = $1 AND g.location ILIKE $2", c.where())
	assert.Equal(t, "$3", limit)
	assert.Equal(t, []any{"open", "%lagos%", 20}, c.args)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%Lagos%", containsPattern("Lagos"))
	assert.Equal(t, `%100\%\_off%`, containsPattern("100%_off"))
}

func TestTextArrayScan(t *testing.T) {
	var got []string
	require.NoError(t, textArray(&got).(interface{ Scan(any) error }).Scan(`{"Web Development",Tutoring}`))
	assert.Equal(t, []string{"Web Development", "Tutoring"}, got)
}
