package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateMatchesOnlyMySQLErrors(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(fmt.Errorf("insert: %w", dup)))

	assert.False(t, isDuplicate(nil))
	assert.False(t, isDuplicate(errors.New("read tcp 10.0.0.1:41062: connection reset")))
	assert.False(t, isDuplicate(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))
}
