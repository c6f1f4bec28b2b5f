package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
)

// In-memory fakes for the store interfaces. They keep just enough filtering
// behavior for the services under test.

// ── mock UserStore ──

type mockUserStore struct {
	users map[int64]*models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[int64]*models.User)}
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = int64(len(m.users) + 1)
	}
	m.users[user.ID] = user
	return nil
}

// ── mock StudentStore ──

type mockStudentStore struct {
	profiles map[int64]*models.StudentProfile // keyed by profile id
}

func newMockStudentStore() *mockStudentStore {
	return &mockStudentStore{profiles: make(map[int64]*models.StudentProfile)}
}

func (m *mockStudentStore) add(profileID, userID int64, studentID, name string, status models.UserStatus) *models.StudentProfile {
	var sid *string
	if studentID != "" {
		sid = &studentID
	}
	profile := &models.StudentProfile{
		ID:        profileID,
		UserID:    userID,
		StudentID: sid,
		User:      &models.User{ID: userID, Name: name, Role: models.RoleStudent, Status: status},
	}
	m.profiles[profileID] = profile
	return profile
}

func (m *mockStudentStore) GetByUserID(_ context.Context, userID int64) (*models.StudentProfile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrStudentNotFound
}

func (m *mockStudentStore) ListActive(_ context.Context) ([]*models.StudentProfile, error) {
	var result []*models.StudentProfile
	for _, p := range m.profiles {
		if p.User.Status == models.UserStatusEnable && p.StudentID != nil {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStudentStore) matchCohort(p *models.StudentProfile, f repositories.CohortFilter) bool {
	if p.StudentID == nil {
		return false
	}
	matched := false
	for _, prefix := range f.Prefixes {
		if strings.HasPrefix(*p.StudentID, prefix) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(*p.StudentID), s) &&
			!strings.Contains(strings.ToLower(p.User.Name), s) {
			return false
		}
	}
	return true
}

func (m *mockStudentStore) CountCohort(_ context.Context, f repositories.CohortFilter) (int64, error) {
	var n int64
	for _, p := range m.profiles {
		if m.matchCohort(p, f) {
			n++
		}
	}
	return n, nil
}

func (m *mockStudentStore) ListCohort(_ context.Context, f repositories.CohortFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentProfile, error) {
	var result []*models.StudentProfile
	for _, p := range m.profiles {
		if m.matchCohort(p, f) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		var less bool
		if sortBy == "name" {
			less = result[i].User.Name < result[j].User.Name
		} else {
			less = *result[i].StudentID < *result[j].StudentID
		}
		if strings.EqualFold(order, "desc") {
			return !less
		}
		return less
	})
	if limit > 0 {
		start := int(offset)
		if start > len(result) {
			start = len(result)
		}
		end := start + limit
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

// ── mock ApproverStore ──

type mockApproverStore struct {
	profiles map[int64]*models.ApproverProfile // keyed by profile id
	updates  int                               // UpdatePinState call count
}

func newMockApproverStore() *mockApproverStore {
	return &mockApproverStore{profiles: make(map[int64]*models.ApproverProfile)}
}

func (m *mockApproverStore) add(profileID, userID int64, name, pin string, role models.Role) *models.ApproverProfile {
	profile := &models.ApproverProfile{
		ID:     profileID,
		UserID: userID,
		Pin:    pin,
		User:   &models.User{ID: userID, Name: name, Role: role, Status: models.UserStatusEnable},
	}
	m.profiles[profileID] = profile
	return profile
}

func (m *mockApproverStore) GetByUserID(_ context.Context, userID int64) (*models.ApproverProfile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrApproverNotFound
}

func (m *mockApproverStore) GetByDisplayName(_ context.Context, name string) (*models.ApproverProfile, error) {
	for _, p := range m.profiles {
		if p.User.Name == name {
			return p, nil
		}
	}
	return nil, repositories.ErrApproverNotFound
}

func (m *mockApproverStore) UpdatePinState(_ context.Context, profileID int64, failCount int, lockedUntil *time.Time) error {
	p, ok := m.profiles[profileID]
	if !ok {
		return repositories.ErrApproverNotFound
	}
	p.PinFailCount = failCount
	p.PinLockedUntil = lockedUntil
	m.updates++
	return nil
}

func (m *mockApproverStore) ListByRole(_ context.Context, role models.Role) ([]*models.ApproverProfile, error) {
	var result []*models.ApproverProfile
	for _, p := range m.profiles {
		if p.User.Role == role {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].User.Name < result[j].User.Name })
	return result, nil
}

// ── mock BookStore ──

type mockBookStore struct {
	books    map[int64]*models.ExperienceBook
	prefixes map[int64][]*models.BookPrefix
	fields   map[int64][]*models.ExperienceField
	nextID   int64
}

func newMockBookStore() *mockBookStore {
	return &mockBookStore{
		books:    make(map[int64]*models.ExperienceBook),
		prefixes: make(map[int64][]*models.BookPrefix),
		fields:   make(map[int64][]*models.ExperienceField),
	}
}

func (m *mockBookStore) addBook(id int64, title string) *models.ExperienceBook {
	book := &models.ExperienceBook{ID: id, Title: title, CreatedAt: time.Now()}
	m.books[id] = book
	return book
}

func (m *mockBookStore) addPrefix(bookID int64, prefix string) {
	m.prefixes[bookID] = append(m.prefixes[bookID], &models.BookPrefix{
		ID: int64(len(m.prefixes[bookID]) + 1), BookID: bookID, Prefix: prefix,
	})
}

func (m *mockBookStore) Create(_ context.Context, book *models.ExperienceBook) error {
	m.nextID++
	book.ID = m.nextID
	book.CreatedAt = time.Now()
	m.books[book.ID] = book
	return nil
}

func (m *mockBookStore) GetByID(_ context.Context, id int64) (*models.ExperienceBook, error) {
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, repositories.ErrBookNotFound
}

func (m *mockBookStore) List(_ context.Context) ([]*models.ExperienceBook, error) {
	var result []*models.ExperienceBook
	for _, b := range m.books {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockBookStore) Update(_ context.Context, id int64, title, description *string) error {
	b, ok := m.books[id]
	if !ok {
		return repositories.ErrBookNotFound
	}
	if title != nil {
		b.Title = *title
	}
	if description != nil {
		b.Description = *description
	}
	return nil
}

func (m *mockBookStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.books[id]; !ok {
		return repositories.ErrBookNotFound
	}
	delete(m.books, id)
	delete(m.prefixes, id)
	return nil
}

func (m *mockBookStore) ListPrefixes(_ context.Context, bookID int64) ([]*models.BookPrefix, error) {
	return m.prefixes[bookID], nil
}

func (m *mockBookStore) CreatePrefix(_ context.Context, prefix *models.BookPrefix) error {
	prefix.ID = int64(len(m.prefixes[prefix.BookID]) + 1)
	m.prefixes[prefix.BookID] = append(m.prefixes[prefix.BookID], prefix)
	return nil
}

func (m *mockBookStore) DeletePrefix(_ context.Context, id int64) error {
	for bookID, list := range m.prefixes {
		for i, p := range list {
			if p.ID == id {
				m.prefixes[bookID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return repositories.ErrPrefixNotFound
}

func (m *mockBookStore) ListFields(_ context.Context, bookID int64) ([]*models.ExperienceField, error) {
	return m.fields[bookID], nil
}

// ── mock CourseStore ──

type mockCourseStore struct {
	courses map[int64]*models.Course
	subs    map[int64]*models.SubCourse
	nextID  int64
}

func newMockCourseStore() *mockCourseStore {
	return &mockCourseStore{
		courses: make(map[int64]*models.Course),
		subs:    make(map[int64]*models.SubCourse),
	}
}

func (m *mockCourseStore) addCourse(id, bookID int64, name string) *models.Course {
	course := &models.Course{ID: id, BookID: bookID, Name: name}
	m.courses[id] = course
	return course
}

func (m *mockCourseStore) addSub(id int64, course *models.Course, name string, alway, inSubject int, subject *string) *models.SubCourse {
	sub := &models.SubCourse{
		ID: id, CourseID: course.ID, Name: name,
		AlwayCourse: alway, InSubjectCount: inSubject, Subject: subject,
	}
	m.subs[id] = sub
	course.SubCourses = append(course.SubCourses, sub)
	return sub
}

func (m *mockCourseStore) CreateCourse(_ context.Context, course *models.Course) error {
	m.nextID++
	course.ID = m.nextID
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrCourseNotFound
}

func (m *mockCourseStore) UpdateCourse(_ context.Context, id int64, name string) error {
	c, ok := m.courses[id]
	if !ok {
		return repositories.ErrCourseNotFound
	}
	c.Name = name
	return nil
}

func (m *mockCourseStore) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return repositories.ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseStore) ListByBook(_ context.Context, bookID int64) ([]*models.Course, error) {
	var result []*models.Course
	for _, c := range m.courses {
		if c.BookID == bookID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCourseStore) CreateSubCourse(_ context.Context, sub *models.SubCourse) error {
	m.nextID++
	sub.ID = m.nextID
	m.subs[sub.ID] = sub
	if c, ok := m.courses[sub.CourseID]; ok {
		c.SubCourses = append(c.SubCourses, sub)
	}
	return nil
}

func (m *mockCourseStore) GetSubCourseByID(_ context.Context, id int64) (*models.SubCourse, error) {
	if s, ok := m.subs[id]; ok {
		return s, nil
	}
	return nil, repositories.ErrSubCourseNotFound
}

func (m *mockCourseStore) UpdateSubCourse(_ context.Context, sub *models.SubCourse) error {
	if _, ok := m.subs[sub.ID]; !ok {
		return repositories.ErrSubCourseNotFound
	}
	m.subs[sub.ID] = sub
	return nil
}

func (m *mockCourseStore) DeleteSubCourse(_ context.Context, id int64) error {
	if _, ok := m.subs[id]; !ok {
		return repositories.ErrSubCourseNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *mockCourseStore) ListSubCoursesByBook(_ context.Context, bookID int64, subject *string) ([]*models.SubCourse, error) {
	var result []*models.SubCourse
	for _, s := range m.subs {
		course, ok := m.courses[s.CourseID]
		if !ok || course.BookID != bookID {
			continue
		}
		if subject != nil && (s.Subject == nil || *s.Subject != *subject) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── mock ExperienceStore ──

type mockExperienceStore struct {
	exps   map[string]*models.StudentExperience
	nextID int
}

func newMockExperienceStore() *mockExperienceStore {
	return &mockExperienceStore{exps: make(map[string]*models.StudentExperience)}
}

func (m *mockExperienceStore) add(id string, bookID, studentID int64, subCourseName, approverName string, status models.ExperienceStatus) *models.StudentExperience {
	exp := &models.StudentExperience{
		ID: id, BookID: bookID, StudentID: studentID,
		SubCourseName: subCourseName, ApproverName: approverName,
		ApproverRole: models.RoleApproverIn, Status: status,
		CreatedAt: time.Now(),
	}
	m.exps[id] = exp
	return exp
}

func (m *mockExperienceStore) Create(_ context.Context, exp *models.StudentExperience) error {
	exp.CreatedAt = time.Now()
	m.exps[exp.ID] = exp
	return nil
}

func (m *mockExperienceStore) GetByID(_ context.Context, id string) (*models.StudentExperience, error) {
	if e, ok := m.exps[id]; ok {
		return e, nil
	}
	return nil, repositories.ErrExperienceNotFound
}

func (m *mockExperienceStore) LoadFieldValues(_ context.Context, _ []*models.StudentExperience) error {
	return nil
}

func (m *mockExperienceStore) UpdateStatus(_ context.Context, id string, status models.ExperienceStatus) error {
	e, ok := m.exps[id]
	if !ok {
		return repositories.ErrExperienceNotFound
	}
	e.Status = status
	return nil
}

func (m *mockExperienceStore) UpdateStatusOwned(_ context.Context, ids []string, approverName string, status models.ExperienceStatus) (int64, error) {
	var affected int64
	for _, id := range ids {
		e, ok := m.exps[id]
		if !ok || e.IsDeleted || e.Status != models.StatusPending || e.ApproverName != approverName {
			continue
		}
		e.Status = status
		affected++
	}
	return affected, nil
}

func (m *mockExperienceStore) SetDeleted(_ context.Context, id string) error {
	e, ok := m.exps[id]
	if !ok {
		return repositories.ErrExperienceNotFound
	}
	e.IsDeleted = true
	return nil
}

func (m *mockExperienceStore) Delete(_ context.Context, id string) error {
	if _, ok := m.exps[id]; !ok {
		return repositories.ErrExperienceNotFound
	}
	delete(m.exps, id)
	return nil
}

func (m *mockExperienceStore) ReplaceOwnContent(_ context.Context, id string, approverName *string, newValues []*models.FieldValue) error {
	e, ok := m.exps[id]
	if !ok {
		return repositories.ErrExperienceNotFound
	}
	if approverName != nil {
		e.ApproverName = *approverName
	}
	if newValues != nil {
		e.FieldValues = newValues
	}
	return nil
}

func (m *mockExperienceStore) sorted() []*models.StudentExperience {
	var all []*models.StudentExperience
	for _, e := range m.exps {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func page(exps []*models.StudentExperience, offset uint64, limit int) []*models.StudentExperience {
	if limit <= 0 {
		return exps
	}
	start := int(offset)
	if start > len(exps) {
		start = len(exps)
	}
	end := start + limit
	if end > len(exps) {
		end = len(exps)
	}
	return exps[start:end]
}

func (m *mockExperienceStore) ListPending(_ context.Context, approverName, search, _, _ string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	var matched []*models.StudentExperience
	for _, e := range m.sorted() {
		if e.ApproverName != approverName || e.Status != models.StatusPending || e.IsDeleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.SubCourseName), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, e)
	}
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockExperienceStore) ListLogs(_ context.Context, approverName string, f repositories.LogFilter, _, _ string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	var matched []*models.StudentExperience
	for _, e := range m.sorted() {
		if e.ApproverName != approverName || e.IsDeleted || e.Status == models.StatusPending {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		if f.StartDate != nil && e.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.CreatedAt.After(*f.EndDate) {
			continue
		}
		matched = append(matched, e)
	}
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockExperienceStore) ListForStudent(_ context.Context, studentProfileID int64, f repositories.StudentListFilter, _, _ string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	var matched []*models.StudentExperience
	for _, e := range m.sorted() {
		if e.StudentID != studentProfileID || e.IsDeleted {
			continue
		}
		if f.BookID > 0 && e.BookID != f.BookID {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		matched = append(matched, e)
	}
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockExperienceStore) ConfirmedCountsByStudent(_ context.Context, bookID int64, studentIDs []int64) (map[int64]map[string]int, error) {
	wanted := make(map[int64]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	counts := make(map[int64]map[string]int)
	for _, e := range m.exps {
		if e.BookID != bookID || !wanted[e.StudentID] || e.Status != models.StatusConfirmed || e.IsDeleted {
			continue
		}
		byName, ok := counts[e.StudentID]
		if !ok {
			byName = make(map[string]int)
			counts[e.StudentID] = byName
		}
		byName[e.SubCourseName]++
	}
	return counts, nil
}

// ── mock SettingStore ──

type mockSettingStore struct {
	enabled bool
}

func (m *mockSettingStore) Get(_ context.Context) (*models.AdminSetting, error) {
	return &models.AdminSetting{ID: 1, IsExperienceCountingEnabled: m.enabled}, nil
}

func (m *mockSettingStore) SetExperienceCounting(_ context.Context, enabled bool) error {
	m.enabled = enabled
	return nil
}
