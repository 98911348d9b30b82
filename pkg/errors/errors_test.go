package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthRequiredError(t *testing.T) {
	err := NewAuthRequiredError()

	assert.Equal(t, ErrorTypeUnauthorized, err.Type)
	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.Equal(t, AuthRequiredMessage, err.Message)
	assert.True(t, IsAuthRequired(err))
}

func TestIsType_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("load diary: %w", NewRequestFailedError(http.StatusBadRequest, "제목을 입력하세요"))

	assert.True(t, IsType(wrapped, ErrorTypeRequestFailed))
	assert.False(t, IsAuthRequired(wrapped))
	assert.Equal(t, "제목을 입력하세요", UserMessage(wrapped))
}

func TestUserMessage_PlainError(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "dial tcp: refused", UserMessage(fmt.Errorf("dial tcp: refused")))
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := NewInternalError("malformed response", fmt.Errorf("unexpected EOF"))

	assert.Equal(t, "INTERNAL: malformed response: unexpected EOF", err.Error())
	assert.EqualError(t, err.Unwrap(), "unexpected EOF")
}
