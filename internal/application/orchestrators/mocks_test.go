package orchestrators

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	incomeStore "studio/internal/adapters/storage/income"
	studentStore "studio/internal/adapters/storage/student"
	"studio/internal/domain/account"
	"studio/internal/domain/enrollment"
	"studio/internal/domain/equipment"
	"studio/internal/domain/income"
	"studio/internal/domain/staff"
	"studio/internal/domain/student"
)

var errNotFound = fmt.Errorf("not found: %w", sql.ErrNoRows)

type mockAccountStore struct {
	byID  map[string]account.Account
	saves int
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{byID: map[string]account.Account{}}
	for _, a := range accts {
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, errNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return account.Account{}, errNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

type mockStudentStore struct {
	byID map[string]student.Student
}

func newMockStudentStore(students ...student.Student) *mockStudentStore {
	m := &mockStudentStore{byID: map[string]student.Student{}}
	for _, s := range students {
		m.byID[s.ID] = s
	}
	return m
}

func (m *mockStudentStore) Save(_ context.Context, s student.Student) error {
	m.byID[s.ID] = s
	return nil
}

func (m *mockStudentStore) GetByID(_ context.Context, id string) (student.Student, error) {
	s, ok := m.byID[id]
	if !ok {
		return student.Student{}, errNotFound
	}
	return s, nil
}

func (m *mockStudentStore) GetByEmail(_ context.Context, email string) (student.Student, error) {
	for _, s := range m.byID {
		if strings.EqualFold(s.Email, email) {
			return s, nil
		}
	}
	return student.Student{}, errNotFound
}

func (m *mockStudentStore) List(_ context.Context, filter studentStore.ListFilter) ([]student.Student, error) {
	var out []student.Student
	for _, s := range m.byID {
		out = append(out, s)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockStudentStore) ListByDateRange(_ context.Context, from, to time.Time) ([]student.Student, error) {
	var out []student.Student
	for _, s := range m.byID {
		if !s.CreatedAt.Before(from) && !s.CreatedAt.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockStaffStore struct {
	saved []staff.Member
}

func (m *mockStaffStore) Save(_ context.Context, s staff.Member) error {
	m.saved = append(m.saved, s)
	return nil
}

type mockEquipmentStore struct {
	byID map[string]equipment.Item
}

func newMockEquipmentStore() *mockEquipmentStore {
	return &mockEquipmentStore{byID: map[string]equipment.Item{}}
}

func (m *mockEquipmentStore) Save(_ context.Context, i equipment.Item) error {
	m.byID[i.ID] = i
	return nil
}

func (m *mockEquipmentStore) GetByID(_ context.Context, id string) (equipment.Item, error) {
	i, ok := m.byID[id]
	if !ok {
		return equipment.Item{}, errNotFound
	}
	return i, nil
}

type mockEnrollmentStore struct {
	byID map[string]enrollment.Enrollment
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{byID: map[string]enrollment.Enrollment{}}
}

func (m *mockEnrollmentStore) Save(_ context.Context, e enrollment.Enrollment) error {
	m.byID[e.ID] = e
	return nil
}

func (m *mockEnrollmentStore) GetByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return enrollment.Enrollment{}, errNotFound
	}
	return e, nil
}

func (m *mockEnrollmentStore) ListByDateRange(_ context.Context, from, to time.Time) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	for _, e := range m.byID {
		out = append(out, e)
	}
	return out, nil
}

type mockIncomeStore struct {
	saved []income.Entry
}

func (m *mockIncomeStore) Save(_ context.Context, e income.Entry) error {
	m.saved = append(m.saved, e)
	return nil
}

func (m *mockIncomeStore) List(_ context.Context, _ incomeStore.ListFilter) ([]income.Entry, error) {
	return m.saved, nil
}

func (m *mockIncomeStore) ListByDateRange(_ context.Context, from, to time.Time) ([]income.Entry, error) {
	var out []income.Entry
	for _, e := range m.saved {
		if !e.ReceivedAt.Before(from) && !e.ReceivedAt.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
