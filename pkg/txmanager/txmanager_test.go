package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure_CommitWrap(t *testing.T) {
	// Форма обертки из run(): ошибка COMMIT должна оставаться различимой,
	// иначе DoSerializable не повторит транзакцию
	commitErr := fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "40001"})

	assert.True(t, isSerializationFailure(commitErr))
}

func TestIsSerializationFailure_RepositoryWrapChain(t *testing.T) {
	errExec := errors.New("booking storage: failed to execute query")
	errInternal := errors.New("create_booking: internal error")

	repoErr := fmt.Errorf("%w: GetWithFilter - execute query: %w", errExec, &pq.Error{Code: "40001"})
	chainErr := fmt.Errorf("%w: failed to get bookings: %w", errInternal, repoErr)

	assert.True(t, isSerializationFailure(chainErr))
}

func TestIsSerializationFailure_NonRetryable(t *testing.T) {
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("plain error")))
	assert.False(t, isSerializationFailure(
		fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "23P01"})))
}
