package mock

import (
	context "context"
	reflect "reflect"

	uuid "github.com/google/uuid"
	gomock "go.uber.org/mock/gomock"
)

// MockNotifier is a mock of Notifier interface.
type MockNotifier struct {
	ctrl     *gomock.Controller
	recorder *MockNotifierMockRecorder
	isgomock struct{}
}

// MockNotifierMockRecorder is the mock recorder for MockNotifier.
type MockNotifierMockRecorder struct {
	mock *MockNotifier
}

// NewMockNotifier creates a new mock instance.
func NewMockNotifier(ctrl *gomock.Controller) *MockNotifier {
	mock := &MockNotifier{ctrl: ctrl}
	mock.recorder = &MockNotifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNotifier) EXPECT() *MockNotifierMockRecorder {
	return m.recorder
}

// NotifyAchievement mocks base method.
func (m *MockNotifier) NotifyAchievement(ctx context.Context, userID uuid.UUID, title, message string, achievementID uint) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NotifyAchievement", ctx, userID, title, message, achievementID)
	ret0, _ := ret[0].(error)
	return ret0
}

// NotifyAchievement indicates an expected call of NotifyAchievement.
func (mr *MockNotifierMockRecorder) NotifyAchievement(ctx, userID, title, message, achievementID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NotifyAchievement", reflect.TypeOf((*MockNotifier)(nil).NotifyAchievement), ctx, userID, title, message, achievementID)
}
