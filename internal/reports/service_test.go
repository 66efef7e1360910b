package reports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-records/student-api/internal/classes"
	"github.com/student-records/student-api/internal/grades"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
	"github.com/student-records/student-api/internal/students"
)

// ============================================================================
// MOCK SOURCES
// ============================================================================

type mockStudents map[string]*students.Student

func (m mockStudents) Get(ctx context.Context, id string) (*students.Student, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

type mockClasses map[string]*classes.Class

func (m mockClasses) Get(ctx context.Context, id string) (*classes.Class, error) {
	if c, ok := m[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

type mockGrades struct {
	mu     sync.Mutex
	grades map[string][]grades.Grade
	calls  atomic.Int32
	delay  time.Duration
}

func (m *mockGrades) ListByStudent(ctx context.Context, studentID string) ([]grades.Grade, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]grades.Grade(nil), m.grades[studentID]...), nil
}

func (m *mockGrades) set(studentID string, list []grades.Grade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grades[studentID] = list
}

type recordingEnqueuer struct{ ids []string }

func (r *recordingEnqueuer) EnqueueReportRefresh(ctx context.Context, studentID string) error {
	r.ids = append(r.ids, studentID)
	return nil
}

func grade(classID string, score, maxScore float64) grades.Grade {
	pct := grades.Percentage(score, maxScore)
	return grades.Grade{ClassID: classID, Score: score, MaxScore: maxScore, Percentage: pct, LetterGrade: grades.LetterGrade(pct)}
}

type fixture struct {
	svc    *Service
	cache  *Cache
	grades *mockGrades
	mr     *miniredis.Miniredis
}

const sid = "5d1c0a2e-7b3f-4e9a-8c6d-1f2e3a4b5c6d"

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	stu := mockStudents{sid: {ID: sid, User: students.UserSummary{FirstName: "ada", LastName: "lovelace"}}}
	cls := mockClasses{
		"math": {ID: "math", Name: "Mathematics"},
		"bio":  {ID: "bio", Name: "Biology"},
	}
	gr := &mockGrades{grades: map[string][]grades.Grade{
		sid: {
			grade("math", 19, 20),
			grade("bio", 40, 50),
			grade("math", 9, 10),
		},
	}}
	cache := NewCache(client, 10*time.Minute)
	return fixture{svc: NewService(stu, cls, gr, cache), cache: cache, grades: gr, mr: mr}
}

// ============================================================================
// TESTS
// ============================================================================

func TestStudentReportGroupsByClass(t *testing.T) {
	f := newFixture(t)
	reports, err := f.svc.StudentReport(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	math := reports[0]
	assert.Equal(t, "Mathematics", math.ClassName)
	assert.Equal(t, "Ada Lovelace", math.StudentName)
	assert.Len(t, math.Grades, 2)
	assert.Equal(t, 14.0, math.AverageScore)
	assert.Equal(t, 93.33, math.AveragePercentage)
	assert.Equal(t, "A", math.LetterGrade)

	bio := reports[1]
	assert.Equal(t, 80.0, bio.AveragePercentage)
	assert.Equal(t, "B-", bio.LetterGrade)
}

func TestPerformanceReportGPA(t *testing.T) {
	f := newFixture(t)
	perf, err := f.svc.PerformanceReport(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 2, perf.TotalClasses)
	assert.Equal(t, 3.35, perf.OverallGPA)
}

func TestPerformanceReportWithoutGrades(t *testing.T) {
	f := newFixture(t)
	f.grades.set(sid, nil)
	perf, err := f.svc.PerformanceReport(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 0.0, perf.OverallGPA)
	assert.Empty(t, perf.Reports)
}

func TestReportsAreCachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StudentReport(ctx, sid)
	require.NoError(t, err)
	_, err = f.svc.StudentReport(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.grades.calls.Load())
	assert.True(t, f.mr.Exists(studentKey(sid)))

	f.grades.set(sid, []grades.Grade{grade("bio", 10, 10)})
	enq := &recordingEnqueuer{}
	require.NoError(t, NewInvalidator(f.cache, enq).InvalidateStudent(ctx, sid))
	assert.False(t, f.mr.Exists(studentKey(sid)))
	assert.Equal(t, []string{sid}, enq.ids)

	reports, err := f.svc.StudentReport(ctx, sid)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "A+", reports[0].LetterGrade)
}

func TestRefreshWarmsBothKeys(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.Refresh(context.Background(), sid))
	assert.True(t, f.mr.Exists(studentKey(sid)))
	assert.True(t, f.mr.Exists(performanceKey(sid)))

	_, err := f.svc.PerformanceReport(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.grades.calls.Load())
}

func TestConcurrentMissesShareOneBuild(t *testing.T) {
	f := newFixture(t)
	f.grades.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.StudentReport(context.Background(), sid)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), f.grades.calls.Load())
}

func TestUnknownStudent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.StudentReport(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceWithoutCache(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.svc.students, f.svc.classes, f.grades, nil)
	reports, err := svc.StudentReport(context.Background(), sid)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.NoError(t, NewInvalidator(nil, nil).InvalidateStudent(context.Background(), sid))
}

func TestReportRoutesRequireViewReports(t *testing.T) {
	f := newFixture(t)
	route := func(role rbac.Role) http.Handler {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				cred := &rbac.Credential{SubjectID: "u", Role: role}
				next.ServeHTTP(w, req.WithContext(rbac.ContextWithCredential(req.Context(), cred)))
			})
		})
		r.Route("/reports", NewHandler(nil, f.svc, rbac.Middleware{}).MountRoutes)
		return r
	}
	get := func(h http.Handler, path string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get(route(rbac.RoleTeacher), "/reports/students/"+sid))
	assert.Equal(t, http.StatusOK, get(route(rbac.RoleAdmin), "/reports/performance/"+sid))
	assert.Equal(t, http.StatusForbidden, get(route(rbac.RoleStudent), "/reports/students/"+sid))
	assert.Equal(t, http.StatusNotFound, get(route(rbac.RoleTeacher), "/reports/students/0f0f0f0f-0000-4000-8000-000000000000"))
	assert.Equal(t, http.StatusBadRequest, get(route(rbac.RoleTeacher), "/reports/students/ghost"))
	assert.Equal(t, http.StatusBadRequest, get(route(rbac.RoleAdmin), "/reports/performance/ghost"))
}

func TestReportsSurviveRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	stu := mockStudents{sid: {ID: sid, User: students.UserSummary{FirstName: "ada", LastName: "lovelace"}}}
	cls := mockClasses{"math": {ID: "math", Name: "Mathematics"}}
	gr := &mockGrades{grades: map[string][]grades.Grade{sid: {grade("math", 19, 20)}}}
	svc := NewService(stu, cls, gr, NewCache(client, time.Minute))

	mr.Close()

	reports, err := svc.StudentReport(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Mathematics", reports[0].ClassName)
	assert.Equal(t, 95.0, reports[0].AveragePercentage)

	perf, err := svc.PerformanceReport(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 1, perf.TotalClasses)
	assert.Equal(t, int32(2), gr.calls.Load())
}
