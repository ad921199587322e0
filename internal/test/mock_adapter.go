package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// MockAdapter testify 模拟的协议适配器
type MockAdapter struct {
	mock.Mock
}

var _ providers.Adapter = (*MockAdapter)(nil)

// Translate 实现 providers.Adapter
func (m *MockAdapter) Translate(ctx context.Context, params providers.TranslateParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
