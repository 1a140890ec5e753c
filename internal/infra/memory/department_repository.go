package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"wellness-survey-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DepartmentLoader fetches questionnaire content from a backing store.
type DepartmentLoader interface {
	LoadDepartment(ctx context.Context, name string) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

// DepartmentRepository caches questionnaires with TTL to avoid repeated
// loader hits. Content changes rarely, so a short TTL is plenty.
type DepartmentRepository struct {
	loader DepartmentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedDepartment
}

type cachedDepartment struct {
	department domain.Department
	expiresAt  time.Time
}

func NewDepartmentRepository(loader DepartmentLoader, ttl time.Duration) *DepartmentRepository {
	return &DepartmentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedDepartment),
	}
}

func (r *DepartmentRepository) GetDepartment(ctx context.Context, name string) (domain.Department, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[name]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.department, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[name]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.department, nil
		}
		r.mu.RUnlock()

		department, err := r.loader.LoadDepartment(ctx, name)
		if err != nil {
			return domain.Department{}, err
		}

		r.mu.Lock()
		r.cache[name] = cachedDepartment{
			department: department,
			expiresAt:  now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return department, nil
	})
	if err != nil {
		return domain.Department{}, err
	}
	return result.(domain.Department), nil
}

func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]string, error) {
	return r.loader.ListDepartments(ctx)
}

func (r *DepartmentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticDepartmentLoader serves questionnaires from an in-memory map. It is
// the default loader when no database is configured and is handy in tests.
type StaticDepartmentLoader struct {
	departments map[string]domain.Department
}

func NewStaticDepartmentLoader(departments map[string]domain.Department) *StaticDepartmentLoader {
	return &StaticDepartmentLoader{departments: departments}
}

// NewBuiltinDepartmentLoader serves the questionnaire content shipped with
// the binary.
func NewBuiltinDepartmentLoader() *StaticDepartmentLoader {
	return NewStaticDepartmentLoader(domain.BuiltinQuestionBank())
}

func (l *StaticDepartmentLoader) LoadDepartment(_ context.Context, name string) (domain.Department, error) {
	if department, ok := l.departments[name]; ok {
		return department, nil
	}
	return domain.Department{}, domain.ErrDepartmentNotFound
}

func (l *StaticDepartmentLoader) ListDepartments(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(l.departments))
	for name := range l.departments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
