package serverutils

import (
	"errors"
	"fmt"
	"testing"

	"fubot-be/internal/dto"
	"fubot-be/internal/service"
	"fubot-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&dto.ChatRequest{Passcode: "ABC123", Message: "Hello"}))

	err := Validate(&dto.ChatRequest{Passcode: "   ", Message: "Hello"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "passcode is required", ve.Detail)

	err = Validate(&dto.HistoryRequest{Passcode: "ABC123", Offset: -1, Limit: 101})
	assert.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Detail, "offset must be at least 0")
	assert.Contains(t, ve.Detail, "limit must be at most 100")
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidPasscode, fiber.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", service.ErrPasscodeNotFound), fiber.StatusNotFound},
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{llm.Upstream("openai", errors.New("quota")), fiber.StatusInternalServerError},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, c := range cases {
		status, _ := classify(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
	}

	_, detail := classify(llm.Upstream("openai", errors.New("sk-secret leaked")))
	assert.NotContains(t, detail, "sk-secret")
}
