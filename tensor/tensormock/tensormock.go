// Package tensormock provides a mock implementation of tensor.Engine,
// generated (by hand, in the shape go.uber.org/mock's mockgen would
// produce) so compiler and vm tests can exercise tensor_sum,
// tensor_sum_dim, and TensorMatch without a real tensor backend.
//
// Source: github.com/skx/rankexpr/tensor (interfaces: Engine)

//go:generate mockgen -source=../tensor.go -destination=tensormock.go -package=tensormock

package tensormock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/skx/rankexpr/object"
	"github.com/skx/rankexpr/stash"
	"github.com/skx/rankexpr/tensor"
)

// MockEngine is a mock of the Engine interface.
type MockEngine struct {
	ctrl     *gomock.Controller
	recorder *MockEngineMockRecorder
}

// MockEngineMockRecorder is the mock recorder for MockEngine.
type MockEngineMockRecorder struct {
	mock *MockEngine
}

// NewMockEngine creates a new mock instance.
func NewMockEngine(ctrl *gomock.Controller) *MockEngine {
	mock := &MockEngine{ctrl: ctrl}
	mock.recorder = &MockEngineMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockEngine) EXPECT() *MockEngineMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockEngine) Create(spec tensor.Spec) (object.TensorHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", spec)
	ret0, _ := ret[0].(object.TensorHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockEngineMockRecorder) Create(spec interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockEngine)(nil).Create), spec)
}

// Reduce mocks base method.
func (m *MockEngine) Reduce(h object.TensorHandle, op tensor.ReduceOp, dims []string, s *stash.Stash) (object.Value, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Reduce", h, op, dims, s)
	ret0, _ := ret[0].(object.Value)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Reduce indicates an expected call of Reduce.
func (mr *MockEngineMockRecorder) Reduce(h, op, dims, s interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reduce", reflect.TypeOf((*MockEngine)(nil).Reduce), h, op, dims, s)
}
