// Package mocks contains a hand-authored gomock-style mock for
// audit.Store, in the shape mockgen would generate from:
//
//	//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks Store
package mocks

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/mock/gomock"

	"auditengine/pkg/audit"
)

// MockStore is a mock of the audit.Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// AddAudit mocks base method.
func (m *MockStore) AddAudit(ctx context.Context, record audit.Record) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddAudit", ctx, record)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AddAudit indicates an expected call of AddAudit.
func (mr *MockStoreMockRecorder) AddAudit(ctx, record any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddAudit", reflect.TypeOf((*MockStore)(nil).AddAudit), ctx, record)
}

// AddAudits mocks base method.
func (m *MockStore) AddAudits(ctx context.Context, records []audit.Record) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddAudits", ctx, records)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AddAudits indicates an expected call of AddAudits.
func (mr *MockStoreMockRecorder) AddAudits(ctx, records any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddAudits", reflect.TypeOf((*MockStore)(nil).AddAudits), ctx, records)
}

// UpdateAudits mocks base method.
func (m *MockStore) UpdateAudits(ctx context.Context, records []audit.Record) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateAudits", ctx, records)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UpdateAudits indicates an expected call of UpdateAudits.
func (mr *MockStoreMockRecorder) UpdateAudits(ctx, records any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateAudits", reflect.TypeOf((*MockStore)(nil).UpdateAudits), ctx, records)
}

// DeleteOlderThan mocks base method.
func (m *MockStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteOlderThan", ctx, cutoff)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteOlderThan indicates an expected call of DeleteOlderThan.
func (mr *MockStoreMockRecorder) DeleteOlderThan(ctx, cutoff any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteOlderThan", reflect.TypeOf((*MockStore)(nil).DeleteOlderThan), ctx, cutoff)
}

var _ audit.Store = (*MockStore)(nil)
