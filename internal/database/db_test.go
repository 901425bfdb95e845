package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app:pw@tcp(db:3306)/tickets?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		DSN("app", "pw", "db", "3306", "tickets"))
	assert.Equal(t,
		"root@tcp(localhost:3306)/tickets?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		DSN("root", "", "localhost", "3306", "tickets"))
}
