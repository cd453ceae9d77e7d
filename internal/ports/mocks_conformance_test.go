package ports_test

import (
	"testing"

	"github.com/interview-ai/datasheet-ui/internal/mocks"
	"github.com/interview-ai/datasheet-ui/internal/mocks/session"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.TokenStore = (*mocks.MockTokenStore)(nil)
	var _ ports.TokenSetter = (*mocks.MockTokenSetter)(nil)
	var _ ports.Navigator = (*mocks.MockNavigator)(nil)
	var _ ports.TokenStore = (*session.MemoryStore)(nil)
	var _ ports.Navigator = (*session.RecordingNavigator)(nil)
}
